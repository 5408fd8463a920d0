// Package sanitizer normalizes inbound string data before validation and
// persistence: collapsing whitespace, lowercasing emails, and cleaning
// string slices. It never rejects input; rejection is the validator's job.
package sanitizer
