package vocab

import (
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestParseLines(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Item
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "words with meanings",
			fileContent: `ephemeral = short-lived
ubiquitous = found everywhere`,
			want: []Item{
				{Word: "ephemeral", Meaning: "short-lived"},
				{Word: "ubiquitous", Meaning: "found everywhere"},
			},
		},
		{
			name: "mixed format",
			fileContent: `ephemeral
ubiquitous = found everywhere
candid`,
			want: []Item{
				{Word: "ephemeral"},
				{Word: "ubiquitous", Meaning: "found everywhere"},
				{Word: "candid"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "ephemeral\r\ncandid = frank\r\n",
			want: []Item{
				{Word: "ephemeral"},
				{Word: "candid", Meaning: "frank"},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `e = mc = squared`,
			want: []Item{
				{Word: "e", Meaning: "mc = squared"},
			},
		},
		{
			name:        "missing word part",
			fileContent: `= orphan meaning`,
			want: []Item{
				{Word: "", Meaning: "orphan meaning"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLines(tt.fileContent)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	content := `[
		{"word": "Ephemeral", "meaning": "short-lived"},
		{"word": "candid", "ipa": "/ˈkændɪd/", "context": "a candid answer", "extra": "adj", "tags": "ielts b2"},
		{"word": "ubiquitous", "tags": ["ielts", " c1 ", ""]},
		{"word": null, "meaning": null, "tags": null}
	]`

	got, err := ParseJSON([]byte(content))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	want := []Item{
		{Word: "Ephemeral", Meaning: "short-lived"},
		{Word: "candid", IPA: "/ˈkændɪd/", Context: "a candid answer", Extra: "adj", Tags: "ielts b2"},
		{Word: "ubiquitous", Tags: "ielts c1"},
		{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseJSON() = %#v, want %#v", got, want)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not an array", `{"word": "x"}`},
		{"broken json", `[{"word": `},
		{"numeric tags", `[{"word": "x", "tags": 42}]`},
		{"numeric word", `[{"word": 42}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "data/vocab.json", []byte(`[{"word":"Ephemeral"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "data/words.TXT", []byte("candid = frank\n"), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := ReadFile(fs, "data/vocab.json")
	if err != nil {
		t.Fatalf("ReadFile(json) error = %v", err)
	}
	if len(items) != 1 || items[0].Word != "Ephemeral" {
		t.Errorf("ReadFile(json) = %#v", items)
	}

	items, err = ReadFile(fs, "data/words.TXT")
	if err != nil {
		t.Fatalf("ReadFile(txt) error = %v", err)
	}
	if len(items) != 1 || items[0].Meaning != "frank" {
		t.Errorf("ReadFile(txt) = %#v", items)
	}

	if _, err := ReadFile(fs, "data/missing.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestItemBlank(t *testing.T) {
	tests := []struct {
		word  string
		blank bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{" run ", false},
	}

	for _, tt := range tests {
		if got := (Item{Word: tt.word}).IsBlank(); got != tt.blank {
			t.Errorf("Item{%q}.IsBlank() = %v, want %v", tt.word, got, tt.blank)
		}
	}

	if got := (Item{Word: "  run  "}).TrimmedWord(); got != "run" {
		t.Errorf("TrimmedWord() = %q", got)
	}
}
