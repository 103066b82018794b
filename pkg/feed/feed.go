// Package feed plays back a recorded control signal that drives the
// explosion-capable animation mode.
package feed

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRate is the playback rate used when a document does not set one.
const DefaultRate = 60.0

// ErrEmpty is returned when a feed document has no records.
var ErrEmpty = errors.New("feed has no records")

// Record is one sample of the control signal.
type Record struct {
	Command float64 `yaml:"command"`
}

// Feed is an ordered sequence of records consumed at a fixed rate.
// Advancing past the last record halts at it.
type Feed struct {
	Rate    float64  `yaml:"rate"` // records per second
	Records []Record `yaml:"records"`

	index int
	carry float64 // fractional records not yet consumed
}

// New creates a feed from raw command values.
func New(rate float64, commands []float64) *Feed {
	f := &Feed{Rate: rate, Records: make([]Record, len(commands))}
	for i, c := range commands {
		f.Records[i].Command = c
	}
	f.normalize()
	return f
}

// Parse decodes a YAML feed document.
func Parse(data []byte) (*Feed, error) {
	var f Feed
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(f.Records) == 0 {
		return nil, ErrEmpty
	}
	f.normalize()
	return &f, nil
}

// Load reads a YAML feed document from path.
func Load(path string) (*Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load feed %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load feed %s: %w", path, err)
	}
	return f, nil
}

func (f *Feed) normalize() {
	if f.Rate <= 0 || math.IsNaN(f.Rate) || math.IsInf(f.Rate, 0) {
		f.Rate = DefaultRate
	}
}

// Len returns the number of records.
func (f *Feed) Len() int { return len(f.Records) }

// Index returns the current playback position.
func (f *Feed) Index() int { return f.index }

// At returns the command at index i, clamped to the valid range. An empty
// feed yields 0.
func (f *Feed) At(i int) float64 {
	if len(f.Records) == 0 {
		return 0
	}
	i = max(0, min(i, len(f.Records)-1))
	return f.Records[i].Command
}

// Focus returns the command at the current position.
func (f *Feed) Focus() float64 { return f.At(f.index) }

// Done reports whether playback has reached the last record.
func (f *Feed) Done() bool { return f.index >= len(f.Records)-1 }

// Advance moves playback forward by dt seconds and reports whether the
// position changed.
func (f *Feed) Advance(dt float64) bool {
	if f.Done() || dt <= 0 {
		return false
	}
	f.carry += dt * f.Rate
	steps := int(f.carry)
	if steps == 0 {
		return false
	}
	f.carry -= float64(steps)

	prev := f.index
	f.index = min(f.index+steps, len(f.Records)-1)
	if f.Done() {
		f.carry = 0
	}
	return f.index != prev
}

// Restart rewinds playback to the first record.
func (f *Feed) Restart() {
	f.index = 0
	f.carry = 0
}

// Save writes the feed as YAML.
func (f *Feed) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write feed %s: %w", path, err)
	}
	return nil
}
