package faq

import "context"

// Store keeps query popularity for the trending list.
type Store interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// TableDecoder turns an uploaded corpus file into a table.
type TableDecoder interface {
	Decode(filename string, content []byte) (Table, error)
}
