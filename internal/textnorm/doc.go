// Package textnorm cleans caption text for the corpus.
//
// Normalize removes caption furniture (speaker labels, stage directions,
// markup), canonicalizes punctuation variants, applies NFKD and spells out
// small integers. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// AlphaNumeric is the later, stricter reduction used for final corpus text.
package textnorm
