package feed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAtClamps(t *testing.T) {
	f := New(10, []float64{0.1, 0.2, 0.3})

	tests := []struct {
		index int
		want  float64
	}{
		{-5, 0.1},
		{0, 0.1},
		{1, 0.2},
		{2, 0.3},
		{3, 0.3},
		{1000, 0.3},
	}
	for _, tc := range tests {
		if got := f.At(tc.index); got != tc.want {
			t.Errorf("At(%d) = %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestEmptyFeed(t *testing.T) {
	f := New(10, nil)
	if f.At(0) != 0 || f.Focus() != 0 {
		t.Errorf("empty feed focus = %v, want 0", f.Focus())
	}
	if f.Advance(1) {
		t.Error("empty feed advanced")
	}
}

func TestAdvance(t *testing.T) {
	f := New(10, []float64{0, 1, 2, 3, 4})

	steps := []struct {
		dt        float64
		wantIndex int
		wantDone  bool
	}{
		{0.05, 0, false}, // half a record
		{0.05, 1, false},
		{0.2, 3, false},
		{0, 3, false},
		{-1, 3, false},
		{5, 4, true}, // halts at the end
		{5, 4, true},
	}
	for i, s := range steps {
		f.Advance(s.dt)
		if f.Index() != s.wantIndex || f.Done() != s.wantDone {
			t.Errorf("step %d: index=%d done=%v, want %d %v", i, f.Index(), f.Done(), s.wantIndex, s.wantDone)
		}
	}
	if f.Focus() != 4 {
		t.Errorf("focus at end = %v, want 4", f.Focus())
	}

	f.Restart()
	if f.Index() != 0 || f.Done() || f.Focus() != 0 {
		t.Errorf("after restart index=%d done=%v", f.Index(), f.Done())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantErr  error
		wantRate float64
		wantLen  int
	}{
		{"full", "rate: 30\nrecords:\n  - command: 0.5\n  - command: 0.7\n", nil, 30, 2},
		{"default rate", "records:\n  - command: 1\n", nil, DefaultRate, 1},
		{"negative rate", "rate: -2\nrecords:\n  - command: 1\n", nil, DefaultRate, 1},
		{"no records", "rate: 10\n", ErrEmpty, 0, 0},
		{"empty records", "rate: 10\nrecords: []\n", ErrEmpty, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse([]byte(tc.doc))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if f.Rate != tc.wantRate || f.Len() != tc.wantLen {
				t.Errorf("rate=%v len=%d, want %v %d", f.Rate, f.Len(), tc.wantRate, tc.wantLen)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("records: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.yaml")
	orig := New(24, []float64{0.25, 0.5, 1})

	if err := orig.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Rate != 24 || loaded.Len() != 3 || loaded.At(2) != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("rate: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty feed error = %v, want ErrEmpty", err)
	}
}
