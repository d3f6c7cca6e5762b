package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

// FileSource reads the dataset document from a local JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file.
func (f *FileSource) Fetch(ctx context.Context) (heatmap.RawDataset, error) {
	if err := ctx.Err(); err != nil {
		return heatmap.RawDataset{}, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return heatmap.RawDataset{}, fmt.Errorf("open dataset file: %w", err)
	}
	defer fh.Close()
	return decode(fh)
}

func (f *FileSource) String() string {
	return f.path
}
