package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// AudioExtension is appended to every generated pronunciation file
const AudioExtension = ".mp3"

// SanitizeFilename lowercases s and replaces every rune that is not a
// letter or a number with an underscore. Nothing is stripped, so the
// result has the same number of runes as the input.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isAlphaNumeric(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String())
}

// MediaFilename returns the audio filename used for a vocabulary word
func MediaFilename(word string) string {
	return SanitizeFilename(word) + AudioExtension
}

// SoundTag formats an Anki inline sound reference
func SoundTag(filename string) string {
	return "[sound:" + filename + "]"
}

// NoteGUID derives a stable Anki note GUID from the word so re-imports
// update existing notes instead of duplicating them
func NoteGUID(word string) string {
	hash := md5.Sum([]byte(word))
	return "vd_" + hex.EncodeToString(hash[:])[:16]
}

// isAlphaNumeric checks if a rune is a letter or a number in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
