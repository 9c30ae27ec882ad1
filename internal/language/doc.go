// Package language resolves the language names and codes accepted in
// configuration (ISO 639-1, ISO 639-2, BCP 47 tags, or English names) to the
// two-letter codes used for caption file suffixes and WhisperX's --language
// flag.
package language
