package domain

// HistoryStore accumulates every observation produced across comparisons in a
// session. Append is the only mutation; consumers read snapshots.
type HistoryStore interface {
	Append(records ...ObservedRecord)
	Snapshot() []ObservedRecord
	Len() int
}

// TitleNormalizer extracts structured fields from a raw product title.
// Implementations must be pure and must never fail: malformed input yields
// empty fields.
type TitleNormalizer interface {
	Normalize(title string) (brand, size, unit string)
}
