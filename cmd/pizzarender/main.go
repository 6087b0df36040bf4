// Command pizzarender draws the Pizza Index chart to a PNG file without
// opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fogleman/gg"

	"github.com/edward-ap/pizzaindex/internal/chart"
	"github.com/edward-ap/pizzaindex/internal/config"
	"github.com/edward-ap/pizzaindex/internal/dataset"
	"github.com/edward-ap/pizzaindex/internal/logger"
	"github.com/edward-ap/pizzaindex/internal/timeline"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("pizzarender: %v", err)
	}
}

type options struct {
	out        string
	categories string
	from, to   int
	height     float64
	scale      float64
	cursor     int
	highlight  string
	configPath string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pizzarender", flag.ContinueOnError)
	fs.StringVar(&o.out, "out", "pizzaindex.png", "output PNG path")
	fs.StringVar(&o.categories, "categories", "", "comma separated categories to show (default: all)")
	fs.IntVar(&o.from, "from", dataset.EpochYear, "first year")
	fs.IntVar(&o.to, "to", dataset.TerminusYear, "last year")
	fs.Float64Var(&o.height, "height", config.DefaultHeight, "container height in logical pixels")
	fs.Float64Var(&o.scale, "scale", 1, "device pixel ratio")
	fs.IntVar(&o.cursor, "cursor", chart.NoCursor, "grid slot of the playback cursor (-1 for none)")
	fs.StringVar(&o.highlight, "highlight", "", "date (YYYY-MM-DD) of the event to highlight")
	fs.StringVar(&o.configPath, "config", "", "path to config.yaml (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// activeSet resolves the -categories flag against the dataset.
func activeSet(ds *dataset.Dataset, list string) (timeline.CategorySet, error) {
	if strings.TrimSpace(list) == "" {
		return timeline.NewCategorySet(ds.CategoryIDs()...), nil
	}
	set := timeline.NewCategorySet()
	for _, name := range strings.Split(list, ",") {
		id := dataset.CategoryID(strings.TrimSpace(name))
		if id == "" {
			continue
		}
		if _, ok := ds.Category(id); !ok {
			return nil, fmt.Errorf("unknown category %q", id)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

func findEvent(ds *dataset.Dataset, date string) *dataset.Event {
	for i := range ds.Events {
		if ds.Events[i].Date == date {
			return &ds.Events[i]
		}
	}
	return nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	ds, err := dataset.Default()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	active, err := activeSet(ds, o.categories)
	if err != nil {
		return err
	}
	yr := timeline.FullRange().WithStart(o.from).WithEnd(o.to)
	cells := timeline.Build(ds, active, &yr)

	var hl *dataset.Event
	if o.highlight != "" {
		if hl = findEvent(ds, o.highlight); hl == nil {
			return fmt.Errorf("no event on %s", o.highlight)
		}
	}

	l := chart.DefaultLayout()
	l.MaxScale = cfg.Chart.MaxScale
	l.MinHeight = cfg.Chart.MinHeight
	frame, err := chart.NewRenderer(ds, l).Render(chart.Scene{
		Cells:           cells,
		Cursor:          o.cursor,
		Highlighted:     hl,
		ContainerHeight: o.height,
		DPR:             o.scale,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := gg.NewContextForRGBA(frame.Image).SavePNG(o.out); err != nil {
		return fmt.Errorf("write %s: %w", o.out, err)
	}
	b := frame.Image.Bounds()
	fmt.Fprintf(stdout, "%s: %dx%d, %d months %d-%d, %d bars\n",
		o.out, b.Dx(), b.Dy(), len(cells), yr.Start, yr.End, len(frame.Geometry.Bars()))
	return nil
}
