package faqsource

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	"github.com/yanqian/advisor-assistant/pkg/tabular"
)

// FileSource reads the corpus from a local CSV or XLSX file.
type FileSource struct {
	path string
}

// NewFileSource constructs a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements faq.Source.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load implements faq.Source.
func (s *FileSource) Load(ctx context.Context) (faq.Table, error) {
	if err := ctx.Err(); err != nil {
		return faq.Table{}, err
	}
	content, err := os.ReadFile(s.path)
	if err != nil {
		return faq.Table{}, fmt.Errorf("read corpus file: %w", err)
	}
	return tabular.Decode(s.path, content)
}

var _ faq.Source = (*FileSource)(nil)
