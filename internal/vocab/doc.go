// Package vocab defines vocabulary input records and reads them from JSON
// or line-based text files.
package vocab
