// Package translation provides short learner definitions for vocabulary
// items that come without a meaning, using the OpenAI API. Definitions are
// cached in memory for the duration of a run.
package translation
