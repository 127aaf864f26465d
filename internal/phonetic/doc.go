// Package phonetic fills in missing IPA transcriptions for vocabulary items
// using an OpenAI chat model.
package phonetic
