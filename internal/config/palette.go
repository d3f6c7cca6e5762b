package config

import (
	"fmt"
	"path/filepath"

	"github.com/kkyr/fig"

	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

type legendFile struct {
	Buckets []heatmap.ColorBucket `fig:"buckets" validate:"required"`
}

// LoadPalette reads a legend file (YAML, JSON or TOML) of descending
// threshold/color pairs. An empty path yields the default palette.
func LoadPalette(path string) (heatmap.Palette, error) {
	if path == "" {
		return heatmap.DefaultPalette(), nil
	}

	var lf legendFile
	if err := fig.Load(&lf, fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path))); err != nil {
		return heatmap.Palette{}, fmt.Errorf("failed to load legend file: %w", err)
	}
	p, err := heatmap.NewPalette(lf.Buckets)
	if err != nil {
		return heatmap.Palette{}, fmt.Errorf("legend file %s: %w", path, err)
	}
	return p, nil
}
