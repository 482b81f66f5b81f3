package faq

// Config holds runtime knobs for the FAQ service.
type Config struct {
	Threshold      float64
	TopK           int
	TrendingLimit  int
	MaxImportBytes int64
}
