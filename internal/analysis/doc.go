// Package analysis turns two playlist snapshots into a [Report].
//
// Everything here is pure computation over [models.Snapshot] values: no I/O, no shared state.
//
// # Similarity
//
// Each snapshot is reduced to a bag-of-words document (artist names and genre tags, lowercased,
// deduplicated on whitespace). A [CountVectorizer] turns the two documents into term-count vectors and
// [Cosine] compares them. [Score] reports the result as a percentage rounded to two decimals.
//
// The vocabulary is fitted on both documents ([VocabularyUnion], symmetric) or on the first one only
// ([VocabularyDirectional]), where terms that only the second playlist uses are ignored.
//
// # Projections
//
//   - [Summarize] : oldest, newest and most popular tracks, modal and most added artist
//   - [Common] : inner join on track name
//   - [BuildHistogram] : tracks added per date, side by side
package analysis
