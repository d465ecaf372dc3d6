package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/urfave/cli"

	"github.com/zappa672/RLIDisplay/compositor"
	"github.com/zappa672/RLIDisplay/config"
	"github.com/zappa672/RLIDisplay/gpu"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/s52/loader"
	"github.com/zappa672/RLIDisplay/settings"
)

func renderCommand() cli.Command {
	return cli.Command{
		Name:      "render",
		Usage:     "compose a chart and write the target texture as PNG",
		ArgsUsage: "[chart]",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "chart", Usage: "GeoJSON file, shapefile or shapefile directory"},
			cli.StringFlag{Name: "out", Value: "chart.png", Usage: "Output PNG path"},
			cli.StringFlag{Name: "backend", Usage: "software or hal (default from config)"},
			cli.StringFlag{Name: "scheme", Usage: "Colour scheme (default from config)"},
			cli.IntFlag{Name: "width", Usage: "Target width (default from config)"},
			cli.IntFlag{Name: "height", Usage: "Target height (default from config)"},
			cli.BoolFlag{Name: "text", Usage: "Enable the text pass"},
			cli.BoolFlag{Name: "fit", Usage: "Centre the view on the chart bounds"},
		},
		Action: runRender,
	}
}

func runRender(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	path := c.String("chart")
	if path == "" {
		path = c.Args().First()
	}
	if path == "" {
		cli.ShowCommandHelp(c, "render")
		return errors.New("no chart provided")
	}
	applyRenderFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	chart, err := loader.Load(path)
	if err != nil {
		return err
	}
	img, err := renderChart(cfg, chart, c.Bool("fit"))
	if err != nil {
		return err
	}
	return writePNG(c.String("out"), img)
}

func applyRenderFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("backend"); v != "" {
		cfg.Backend = v
	}
	if v := c.String("scheme"); v != "" {
		cfg.ColorScheme = v
	}
	if v := c.Int("width"); v > 0 {
		cfg.Viewport.Width = v
	}
	if v := c.Int("height"); v > 0 {
		cfg.Viewport.Height = v
	}
	if c.Bool("text") {
		cfg.TextPass = true
	}
}

// renderChart composes one frame of chart and returns a copy of the target.
// Closing the compositor saves the layer settings; a failed save is returned.
func renderChart(cfg *config.Config, chart *s52.Dataset, fit bool) (_ *image.RGBA, err error) {
	backend, pixels, cleanup, err := openBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	palette := s52.DefaultPalette()
	if cfg.ColorScheme != "" {
		if err := palette.SetColorScheme(cfg.ColorScheme); err != nil {
			return nil, err
		}
	}

	store := settings.Open(cfg.SettingsPath)
	comp := compositor.New(store, backend,
		compositor.WithRedrawInterval(time.Duration(cfg.RedrawInterval)),
		compositor.WithTextPass(cfg.TextPass),
		compositor.WithBackground(cfg.BackgroundColor()),
	)
	defer func() {
		if cerr := comp.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := comp.Init(cfg.Viewport.Width, cfg.Viewport.Height, palette); err != nil {
		return nil, err
	}
	if err := comp.SetChart(chart, palette); err != nil {
		return nil, err
	}

	center := orb.Point{cfg.Viewport.CenterX, cfg.Viewport.CenterY}
	radius := cfg.Viewport.Radius
	if fit {
		center, radius = fitView(chart.Bound())
	}
	// Update is throttled; the pose is recorded either way and Draw forces
	// the composite.
	if _, err := comp.Update(center, radius, cfg.Viewport.Angle); err != nil {
		return nil, err
	}
	if err := comp.Draw(); err != nil {
		return nil, err
	}
	s := comp.LastDrawStats()
	slog.Info("chart composed", "chart", comp.ChartName(), "backend", cfg.Backend,
		"draw_calls", s.Total(), "areas", s.Areas, "lines", s.Lines, "marks", s.Marks,
		"texts", s.Texts, "soundings", s.Soundings)

	src := pixels.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out, nil
}

type imageSource interface {
	Image() *image.RGBA
}

// openBackend returns the backend and its framebuffer's composited pixels.
func openBackend(name string) (compositor.Backend, imageSource, func(), error) {
	switch name {
	case config.BackendHAL:
		h, err := gpu.OpenHeadless()
		if err != nil {
			return compositor.Backend{}, nil, nil, err
		}
		b, err := gpu.NewBackend(h)
		if err != nil {
			h.Close()
			return compositor.Backend{}, nil, nil, err
		}
		return b, b.Framebuffer.(*gpu.HALFramebuffer), h.Close, nil
	default:
		b := compositor.SoftwareBackend()
		return b, b.Framebuffer.(*render.PixmapFramebuffer), func() {}, nil
	}
}

// fitView centres the view on b with a radius covering it.
func fitView(b orb.Bound) (orb.Point, float64) {
	r := max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]) / 2
	if r <= 0 {
		r = 1
	}
	return b.Center(), r
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func chartsCommand() cli.Command {
	return cli.Command{
		Name:      "charts",
		Usage:     "load every chart under a directory and list them",
		ArgsUsage: "[dir]",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			root := c.Args().First()
			if root == "" {
				root = cfg.ChartsPath
			}
			m := loader.NewManager(nil)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := m.Start(ctx, root); err != nil {
				return err
			}
			for name := range m.Available() {
				chart, err := m.Chart(name)
				if err != nil {
					return err
				}
				b := chart.Bound()
				fmt.Fprintf(c.App.Writer, "%s\tareas=%d lines=%d marks=%d texts=%d bounds=%v,%v\n",
					name, len(chart.AreaLayerNames()), len(chart.LineLayerNames()),
					len(chart.MarkLayerNames()), len(chart.TextLayerNames()), b.Min, b.Max)
			}
			if err := m.Wait(ctx); err != nil {
				return err
			}
			return errors.Join(m.Errors()...)
		},
	}
}
