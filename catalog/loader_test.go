package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalsfoundry/solary/instrument"
)

const testInventory = `{
  "reflectors": {
    "one-metre": {"main_mirror_dia": 1.0, "sec_mirror_dia": 0.2, "optical_throughput": 0.6, "focal_length": 10.0},
    "newtonian": {"main_mirror_dia": 0.254, "sec_mirror_dia": 0.06, "optical_throughput": 0.8, "focal_length": 1.2}
  },
  "ccds": {
    "e2v": {"pixels": [4096, 4112], "pixel_size": 15.0, "dark_noise": 2.0, "readout_noise": 1.0, "full_well": 300000.0, "quantum_eff": 0.5}
  }
}`

func TestLoadInventory(t *testing.T) {
	store := New()
	inv, err := LoadInventory(store, strings.NewReader(testInventory))
	if err != nil {
		t.Fatalf("LoadInventory error: %v", err)
	}
	if got := strings.Join(inv.Reflectors, ","); got != "newtonian,one-metre" {
		t.Fatalf("reflectors = %q", got)
	}
	if len(inv.CCDs) != 1 || inv.CCDs[0] != "e2v" {
		t.Fatalf("ccds = %v", inv.CCDs)
	}

	r, err := store.Reflector("one-metre")
	if err != nil {
		t.Fatalf("Reflector error: %v", err)
	}
	if r.FocalLength() != 10.0 {
		t.Fatalf("focal length = %v, want 10", r.FocalLength())
	}
}

func TestLoadInventoryErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"malformed":      {`{"reflectors": `, ErrInvalidInstrument},
		"unknown top":    {`{"mounts": {}}`, ErrInvalidInstrument},
		"bad reflector":  {`{"reflectors": {"r": {"main_mirror_dia": 1.0}}}`, instrument.ErrConfiguration},
		"invalid ccd":    {`{"ccds": {"c": {"pixels": [0, 1], "pixel_size": 1, "dark_noise": 0, "readout_noise": 0, "full_well": 1, "quantum_eff": 1}}}`, instrument.ErrConfiguration},
	}
	for name, tc := range cases {
		_, err := LoadInventory(New(), strings.NewReader(tc.body))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", name, err, tc.want)
		}
	}

	// duplicate against an existing entry
	store := New()
	if err := store.AddCCD("e2v", mustCCD(t)); err != nil {
		t.Fatalf("AddCCD error: %v", err)
	}
	if _, err := LoadInventory(store, strings.NewReader(testInventory)); !errors.Is(err, ErrInstrumentExists) {
		t.Fatalf("duplicate: err = %v", err)
	}
}

func TestLoadInventoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte(testInventory), 0o644); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	store := New()
	if _, err := LoadInventoryFile(store, path); err != nil {
		t.Fatalf("LoadInventoryFile error: %v", err)
	}
	if r, c := store.Counts(); r != 2 || c != 1 {
		t.Fatalf("Counts = %d, %d", r, c)
	}
	if _, err := LoadInventoryFile(New(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
