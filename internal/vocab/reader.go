package vocab

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ReadFile reads vocabulary items from filename. The format is chosen by
// extension:
//   - .txt: one entry per line, either "word" or "word = meaning"
//   - anything else: a JSON array of item objects
func ReadFile(fs afero.Fs, filename string) ([]Item, error) {
	content, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".txt") {
		return ParseLines(string(content)), nil
	}
	return ParseJSON(content)
}

// ParseJSON decodes a JSON array of items
func ParseJSON(content []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary JSON: %w", err)
	}
	return items, nil
}

// ParseLines parses the line-based format. Blank lines are ignored; lines
// with an empty word part ("= meaning") are kept so they are reported and
// skipped the same way as blank JSON words.
func ParseLines(content string) []Item {
	var items []Item

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		word, meaning, found := strings.Cut(line, "=")
		if !found {
			items = append(items, Item{Word: line})
			continue
		}

		items = append(items, Item{
			Word:    strings.TrimSpace(word),
			Meaning: strings.TrimSpace(meaning),
		})
	}

	return items
}
