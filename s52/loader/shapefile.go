package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/zappa672/RLIDisplay/s52"
)

// LoadShapefileDir reads every .shp file in dir as one layer of a chart
// named after the directory. A record with a LAYER attribute goes to that
// layer instead of the file's.
func LoadShapefileDir(dir string) (*s52.Dataset, error) {
	files, err := shapefiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCharts, dir)
	}

	b := &builder{d: s52.NewDataset(filepath.Base(dir))}
	for _, f := range files {
		if err := b.readShapefile(f); err != nil {
			return nil, err
		}
	}
	if b.skipped > 0 {
		logger().Debug("loader: skipped features", "chart", b.d.Name(), "count", b.skipped)
	}
	return b.d, nil
}

// LoadShapefile reads a single shapefile as a chart named after the file.
func LoadShapefile(path string) (*s52.Dataset, error) {
	b := &builder{d: s52.NewDataset(chartName(path))}
	if err := b.readShapefile(path); err != nil {
		return nil, err
	}
	return b.d, nil
}

func shapefiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".shp") {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (b *builder) readShapefile(path string) error {
	r, err := shp.Open(path)
	if err != nil {
		return fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer r.Close()

	layer := chartName(path)
	fields := r.Fields()
	for r.Next() {
		n, shape := r.Shape()
		props := make(Properties, len(fields))
		for i, f := range fields {
			props[f.String()] = r.ReadAttribute(n, i)
		}
		b.addShape(shape, props, layer)
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return nil
}

func (b *builder) addShape(shape shp.Shape, props Properties, layer string) {
	switch s := shape.(type) {
	case *shp.Point:
		b.add(orb.Point{s.X, s.Y}, props, layer)
	case *shp.PointZ:
		name := strings.ToUpper(props.String(PropLayer))
		if name == "" {
			name = strings.ToUpper(layer)
		}
		z := s.Z
		b.addPoint(name, orb.Point{s.X, s.Y}, props, &z)
	case *shp.MultiPoint:
		mp := make(orb.MultiPoint, len(s.Points))
		for i, p := range s.Points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		b.add(mp, props, layer)
	case *shp.PolyLine:
		b.add(polyLine(s.Parts, s.Points), props, layer)
	case *shp.Polygon:
		b.add(polygon(s.Parts, s.Points), props, layer)
	case *shp.Null, nil:
		b.skipped++
	default:
		b.skipped++
	}
}

// parts splits a shapefile point list at the given part offsets.
func parts(offsets []int32, pts []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(offsets))
	for i, start := range offsets {
		end := int32(len(pts))
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start < 0 || start > end || int(end) > len(pts) {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range pts[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}

func polyLine(offsets []int32, pts []shp.Point) orb.Geometry {
	ps := parts(offsets, pts)
	if len(ps) == 1 {
		return orb.LineString(ps[0])
	}
	mls := make(orb.MultiLineString, len(ps))
	for i, p := range ps {
		mls[i] = p
	}
	return mls
}

// polygon groups rings into polygons: a clockwise ring starts a new polygon
// and counter-clockwise rings that follow are its holes.
func polygon(offsets []int32, pts []shp.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, p := range parts(offsets, pts) {
		ring := orb.Ring(p)
		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}
