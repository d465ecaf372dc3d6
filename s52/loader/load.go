package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/s52"
)

var (
	// ErrNoCharts is returned when a path holds nothing a loader can read.
	ErrNoCharts = errors.New("loader: no charts found")

	// ErrMalformed wraps decoding failures of chart files.
	ErrMalformed = errors.New("loader: malformed chart")

	// ErrUnknownChart is returned by Manager.Chart for names never loaded.
	ErrUnknownChart = errors.New("loader: unknown chart")
)

func logger() *slog.Logger { return rlidisplay.Logger() }

// Load reads one chart from path: a GeoJSON file, a single shapefile, or a
// directory of shapefiles.
func Load(path string) (*s52.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if info.IsDir() {
		return LoadShapefileDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".shp":
		return LoadShapefile(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCharts, path)
}

// Discover lists the chart sources under root: every GeoJSON file and every
// directory holding shapefiles, root included. Paths are sorted.
func Discover(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			files, err := shapefiles(path)
			if err != nil {
				return err
			}
			if len(files) > 0 {
				out = append(out, path)
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".geojson", ".json":
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: scan %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}
