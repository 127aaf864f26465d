package vocab

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Item is one vocabulary entry of the input list
type Item struct {
	Word    string `json:"word"`
	IPA     string `json:"ipa"`
	Meaning string `json:"meaning"`
	Context string `json:"context"`
	Extra   string `json:"extra"`
	Tags    string `json:"tags"`
}

// TrimmedWord returns the word without surrounding whitespace
func (i Item) TrimmedWord() string {
	return strings.TrimSpace(i.Word)
}

// IsBlank reports whether the item has no usable word
func (i Item) IsBlank() bool {
	return i.TrimmedWord() == ""
}

// UnmarshalJSON accepts null for any field and tags given either as a
// string or as a list of strings. A tag list is joined with spaces, which
// is how Anki separates tags in an import file.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Word    *string         `json:"word"`
		IPA     *string         `json:"ipa"`
		Meaning *string         `json:"meaning"`
		Context *string         `json:"context"`
		Extra   *string         `json:"extra"`
		Tags    json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tags, err := decodeTags(raw.Tags)
	if err != nil {
		return err
	}

	*i = Item{
		Word:    deref(raw.Word),
		IPA:     deref(raw.IPA),
		Meaning: deref(raw.Meaning),
		Context: deref(raw.Context),
		Extra:   deref(raw.Extra),
		Tags:    tags,
	}
	return nil
}

func decodeTags(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("tags must be a string or a list of strings: %w", err)
	}

	parts := make([]string, 0, len(list))
	for _, tag := range list {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " "), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
