package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/zappa672/RLIDisplay/settings"
)

// withStore opens the configured settings store, runs fn and saves the store
// when fn changed it.
func withStore(c *cli.Context, fn func(s *settings.Store) (bool, error)) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	s := settings.Open(cfg.SettingsPath)
	changed, err := fn(s)
	if err != nil {
		return err
	}
	if changed {
		return s.Close()
	}
	return nil
}

func layersCommand() cli.Command {
	return cli.Command{
		Name:  "layers",
		Usage: "print the layer settings grid",
		Action: func(c *cli.Context) error {
			return withStore(c, func(s *settings.Store) (bool, error) {
				return false, printGrid(c.App.Writer, s)
			})
		},
	}
}

func printGrid(w io.Writer, s *settings.Store) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "#")
	for col := 0; col < s.ColumnCount(); col++ {
		h, _ := s.HeaderData(col, settings.Horizontal, settings.DisplayRole)
		fmt.Fprintf(tw, "\t%v", h)
	}
	fmt.Fprintln(tw)

	for row := 0; row < s.RowCount(); row++ {
		n, _ := s.HeaderData(row, settings.Vertical, settings.DisplayRole)
		name, _ := s.Data(row, settings.ColumnName, settings.DisplayRole)
		state, _ := s.Data(row, settings.ColumnVisible, settings.CheckStateRole)
		desc, _ := s.Data(row, settings.ColumnDescription, settings.DisplayRole)
		mark := " "
		if state == settings.Checked {
			mark = "x"
		}
		fmt.Fprintf(tw, "%v\t%v\t[%s]\t%v\n", n, name, mark, desc)
	}

	d := s.Depths()
	fmt.Fprintf(tw, "\nsoundings\t%t\n", s.SoundingsVisible())
	fmt.Fprintf(tw, "depths\tshallow=%g safety=%g deep=%g\n", d.Shallow, d.Safety, d.Deep)
	return tw.Flush()
}

func toggleCommand() cli.Command {
	return cli.Command{
		Name:      "toggle",
		Usage:     "flip the visibility of layers",
		ArgsUsage: "<layer> [layer...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no layer provided")
			}
			return withStore(c, func(s *settings.Store) (bool, error) {
				for _, name := range c.Args() {
					if _, ok := s.Layer(name); !ok {
						return false, fmt.Errorf("unknown layer %q", name)
					}
					s.SetLayerVisibility(name, !s.IsLayerVisible(name))
				}
				return true, printGrid(c.App.Writer, s)
			})
		},
	}
}

func moveCommand() cli.Command {
	return cli.Command{
		Name:      "move",
		Usage:     "move a layer within the render order",
		ArgsUsage: "<layer|row> <up|down|top|bottom>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("want a layer and a direction")
			}
			return withStore(c, func(s *settings.Store) (bool, error) {
				row, err := rowOf(s, c.Args().Get(0))
				if err != nil {
					return false, err
				}
				switch c.Args().Get(1) {
				case "up":
					settings.MoveUp(s, row)
				case "down":
					settings.MoveDown(s, row)
				case "top":
					settings.MoveToTop(s, row)
				case "bottom":
					settings.MoveToBottom(s, row)
				default:
					return false, fmt.Errorf("unknown direction %q", c.Args().Get(1))
				}
				return true, printGrid(c.App.Writer, s)
			})
		},
	}
}

// rowOf resolves a layer name or a 1-based row number to a row index.
func rowOf(s *settings.Store, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > s.RowCount() {
			return 0, fmt.Errorf("row %d out of range 1..%d", n, s.RowCount())
		}
		return n - 1, nil
	}
	for i, name := range s.LayersDisplayOrder() {
		if name == arg {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", arg)
}

func soundingsCommand() cli.Command {
	return cli.Command{
		Name:      "soundings",
		Usage:     "show or hide soundings",
		ArgsUsage: "<on|off>",
		Action: func(c *cli.Context) error {
			v, err := strconv.ParseBool(c.Args().First())
			if err != nil {
				switch c.Args().First() {
				case "on":
					v = true
				case "off":
					v = false
				default:
					return fmt.Errorf("want on or off, got %q", c.Args().First())
				}
			}
			return withStore(c, func(s *settings.Store) (bool, error) {
				s.SetSoundingsVisible(v)
				return true, printGrid(c.App.Writer, s)
			})
		},
	}
}
