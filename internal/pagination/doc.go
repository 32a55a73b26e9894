// Package pagination splits transcript text into sentence-aligned pages that
// fit a token budget.
//
// Sentences end at '.', '!' or '?' followed by whitespace. The splitter is a
// heuristic: abbreviations and decimals are not special-cased. Sentences are
// packed greedily; a page closes before the sentence that would push it over
// budget. A sentence larger than the budget is never split and occupies a
// page of its own, so the budget is a packing target rather than a ceiling.
//
// Empty text yields a single empty page. Pages are derived on every call and
// never persisted.
package pagination
