// Package processor runs a complete deck generation. It resolves where
// audio goes, reads the vocabulary list, optionally fills missing IPA and
// meanings, drives the deck builder and writes the import file and the
// optional APKG package before printing the run summary.
package processor
