// Package dataset holds the compiled-in crisis timeline: the category table,
// the sparse list of crisis events and the monthly baseline series.
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EpochYear is the first calendar year covered by the baseline series.
	EpochYear = 1983
	// TerminusYear is the last calendar year covered by the timeline.
	TerminusYear = 2025
	// MonthsPerYear keeps month index arithmetic readable.
	MonthsPerYear = 12

	epochKey = "1983-01"
)

//go:embed data.yaml
var embedded []byte

// CategoryID names a crisis category, e.g. "Atentados Terroristas".
type CategoryID string

// Category carries the static presentation data of one category.
type Category struct {
	ID    CategoryID `yaml:"id"`
	Color string     `yaml:"color"`
	Icon  string     `yaml:"icon"`
	Sound string     `yaml:"sound"`
}

// Event is a single crisis record. Date is formatted YYYY-MM-DD.
type Event struct {
	Date      string     `yaml:"date"`
	Magnitude float64    `yaml:"magnitude"`
	Label     string     `yaml:"label"`
	Category  CategoryID `yaml:"category"`
}

// MonthKey returns the YYYY-MM prefix used to place the event on the grid.
func (e Event) MonthKey() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}

// Year returns the calendar year of the event, or 0 for a malformed date.
func (e Event) Year() int {
	if len(e.Date) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(e.Date[:4])
	return y
}

// Dataset is the immutable timeline source.
type Dataset struct {
	Categories []Category
	Events     []Event
	Baseline   []float64

	byID map[CategoryID]int
}

type rawDataset struct {
	Epoch      string      `yaml:"epoch"`
	Categories []Category  `yaml:"categories"`
	Events     []Event     `yaml:"events"`
	Baseline   [][]float64 `yaml:"baseline"`
}

var (
	// ErrUnknownCategory is returned when an event references a category
	// that is not declared in the category table.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnsorted is returned when events are not in chronological order.
	ErrUnsorted = errors.New("events not sorted by date")

	defaultOnce sync.Once
	defaultDS   *Dataset
	defaultErr  error
)

// Default parses the embedded dataset once and returns the shared instance.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultDS, defaultErr = Parse(embedded)
	})
	return defaultDS, defaultErr
}

// Parse decodes and validates a YAML dataset document.
func Parse(b []byte) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("dataset parse error: %w", err)
	}
	if raw.Epoch != "" && raw.Epoch != epochKey {
		return nil, fmt.Errorf("dataset epoch %q, want %q", raw.Epoch, epochKey)
	}

	ds := &Dataset{
		Categories: raw.Categories,
		Events:     raw.Events,
		byID:       make(map[CategoryID]int, len(raw.Categories)),
	}
	for i, c := range raw.Categories {
		if strings.TrimSpace(string(c.ID)) == "" {
			return nil, fmt.Errorf("category %d has empty id", i)
		}
		ds.byID[c.ID] = i
	}
	for _, year := range raw.Baseline {
		for _, v := range year {
			if v < 0 {
				return nil, fmt.Errorf("negative baseline value %v", v)
			}
			ds.Baseline = append(ds.Baseline, v)
		}
	}

	prev := ""
	for _, e := range ds.Events {
		if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Label, err)
		}
		if _, ok := ds.byID[e.Category]; !ok {
			return nil, fmt.Errorf("event %q: %w %q", e.Label, ErrUnknownCategory, e.Category)
		}
		if e.Magnitude < 0 {
			return nil, fmt.Errorf("event %q: negative magnitude %v", e.Label, e.Magnitude)
		}
		if e.Date < prev {
			return nil, fmt.Errorf("event %q: %w", e.Label, ErrUnsorted)
		}
		prev = e.Date
	}
	return ds, nil
}

// Category looks up a category by id.
func (d *Dataset) Category(id CategoryID) (Category, bool) {
	if d.byID == nil {
		for _, c := range d.Categories {
			if c.ID == id {
				return c, true
			}
		}
		return Category{}, false
	}
	i, ok := d.byID[id]
	if !ok {
		return Category{}, false
	}
	return d.Categories[i], true
}

// CategoryIDs lists category ids in declaration order.
func (d *Dataset) CategoryIDs() []CategoryID {
	out := make([]CategoryID, len(d.Categories))
	for i, c := range d.Categories {
		out[i] = c.ID
	}
	return out
}

// BaselineAt returns the baseline for a month index and whether it exists.
func (d *Dataset) BaselineAt(monthIndex int) (float64, bool) {
	if monthIndex < 0 || monthIndex >= len(d.Baseline) {
		return 0, false
	}
	return d.Baseline[monthIndex], true
}

// MonthIndex converts a YYYY-MM or YYYY-MM-DD date into an offset from the
// epoch month. Malformed dates yield -1.
func MonthIndex(date string) int {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return -1
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > MonthsPerYear {
		return -1
	}
	return (y-EpochYear)*MonthsPerYear + (m - 1)
}

// MonthKey formats the YYYY-MM key for a calendar month.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
