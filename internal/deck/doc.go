// Package deck turns vocabulary items into Anki import rows. For every word
// it makes sure a pronunciation file exists in the media directory,
// synthesizing one when needed, and pauses between provider calls to stay
// under service rate limits.
package deck
