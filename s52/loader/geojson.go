package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/zappa672/RLIDisplay/s52"
)

// LoadGeoJSON reads a GeoJSON feature collection. The chart is named after
// the file.
func LoadGeoJSON(path string) (*s52.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return DecodeGeoJSON(chartName(path), data)
}

// DecodeGeoJSON builds a chart from an encoded feature collection. Features
// without a LAYER property are placed in a layer named after the chart.
func DecodeGeoJSON(name string, data []byte) (*s52.Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}

	b := &builder{d: s52.NewDataset(name)}
	for _, f := range fc.Features {
		if f == nil {
			b.skipped++
			continue
		}
		b.add(f.Geometry, Properties(f.Properties), name)
	}
	if b.skipped > 0 {
		logger().Debug("loader: skipped features", "chart", name, "count", b.skipped)
	}
	return b.d, nil
}

func chartName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
