// Package models lists the OpenAI models available to an API key, grouped
// into the speech models usable as tts_provider "openai" and the chat models
// used to fill missing IPA and meanings.
package models
