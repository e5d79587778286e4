package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/signalsfoundry/solary/instrument"
)

func mustReflector(t *testing.T) *instrument.Reflector {
	t.Helper()
	r, err := instrument.NewReflector(instrument.ReflectorConfig{
		MainMirrorDia: 1.0, SecMirrorDia: 0.2, OpticalThroughput: 0.6, FocalLength: 10.0,
	})
	if err != nil {
		t.Fatalf("NewReflector error: %v", err)
	}
	return r
}

func mustCCD(t *testing.T) *instrument.CCD {
	t.Helper()
	c, err := instrument.NewCCD(instrument.CCDConfig{
		Pixels: [2]int{4096, 4112}, PixelSize: 15.0, DarkNoise: 2.0,
		ReadoutNoise: 1.0, FullWell: 300000.0, QuantumEff: 0.5,
	})
	if err != nil {
		t.Fatalf("NewCCD error: %v", err)
	}
	return c
}

func TestAddAndGet(t *testing.T) {
	store := New()
	r := mustReflector(t)
	if err := store.AddReflector("one-metre", r); err != nil {
		t.Fatalf("AddReflector error: %v", err)
	}
	got, err := store.Reflector("one-metre")
	if err != nil || got != r {
		t.Fatalf("Reflector returned %p, %v; want %p", got, err, r)
	}
	if _, err := store.CCD("one-metre"); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("CCD lookup of a reflector name: err = %v", err)
	}
}

func TestAddDuplicateAndInvalid(t *testing.T) {
	store := New()
	if err := store.AddCCD("cam", mustCCD(t)); err != nil {
		t.Fatalf("first AddCCD error: %v", err)
	}
	if err := store.AddCCD("cam", mustCCD(t)); !errors.Is(err, ErrInstrumentExists) {
		t.Fatalf("duplicate AddCCD: err = %v", err)
	}
	if err := store.AddCCD("  ", mustCCD(t)); !errors.Is(err, ErrInvalidInstrument) {
		t.Fatalf("blank name: err = %v", err)
	}
	if err := store.AddReflector("r", nil); !errors.Is(err, ErrInvalidInstrument) {
		t.Fatalf("nil reflector: err = %v", err)
	}
}

func TestListAndCounts(t *testing.T) {
	store := New()
	for _, name := range []string{"c", "a", "b"} {
		if err := store.AddReflector(name, mustReflector(t)); err != nil {
			t.Fatalf("AddReflector error: %v", err)
		}
	}
	if err := store.AddCCD("cam", mustCCD(t)); err != nil {
		t.Fatalf("AddCCD error: %v", err)
	}

	if got := strings.Join(store.ListReflectors(), ","); got != "a,b,c" {
		t.Fatalf("ListReflectors = %q, want a,b,c", got)
	}
	if got := store.ListCCDs(); len(got) != 1 || got[0] != "cam" {
		t.Fatalf("ListCCDs = %v", got)
	}
	if r, c := store.Counts(); r != 3 || c != 1 {
		t.Fatalf("Counts = %d, %d; want 3, 1", r, c)
	}

	if err := store.Remove(KindReflector, "b"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if err := store.Remove(KindReflector, "b"); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("second Remove: err = %v", err)
	}
	if r, _ := store.Counts(); r != 2 {
		t.Fatalf("reflectors after remove = %d, want 2", r)
	}
}

func TestTelescopeIsFreshPerCall(t *testing.T) {
	store := New()
	if err := store.AddReflector("r", mustReflector(t)); err != nil {
		t.Fatalf("AddReflector error: %v", err)
	}
	if err := store.AddCCD("c", mustCCD(t)); err != nil {
		t.Fatalf("AddCCD error: %v", err)
	}

	a, err := store.Telescope("r", "c", nil)
	if err != nil {
		t.Fatalf("Telescope error: %v", err)
	}
	if err := a.SetAperture(10); err != nil {
		t.Fatalf("SetAperture error: %v", err)
	}
	b, err := store.Telescope("r", "c", nil)
	if err != nil {
		t.Fatalf("Telescope error: %v", err)
	}
	if _, ok := b.Aperture(); ok {
		t.Fatalf("second telescope inherited observation settings")
	}
	if _, err := store.Telescope("r", "missing", nil); !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("missing ccd: err = %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	store := New()

	var got []Event
	unsubscribe := store.Subscribe(func(e Event) {
		got = append(got, e)
	})

	if err := store.AddReflector("r", mustReflector(t)); err != nil {
		t.Fatalf("AddReflector error: %v", err)
	}
	if err := store.Remove(KindReflector, "r"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	unsubscribe()
	if err := store.AddCCD("c", mustCCD(t)); err != nil {
		t.Fatalf("AddCCD error: %v", err)
	}

	want := []Event{
		{Type: EventInstrumentAdded, Kind: KindReflector, Name: "r"},
		{Type: EventInstrumentRemoved, Kind: KindReflector, Name: "r"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSubscriberMayReadCatalog(t *testing.T) {
	store := New()
	var seen int
	store.Subscribe(func(e Event) {
		// must not deadlock: callbacks run outside the lock
		seen, _ = store.Counts()
	})
	if err := store.AddReflector("r", mustReflector(t)); err != nil {
		t.Fatalf("AddReflector error: %v", err)
	}
	if seen != 1 {
		t.Fatalf("subscriber saw %d reflectors, want 1", seen)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := New()
	if err := store.AddCCD("c", mustCCD(t)); err != nil {
		t.Fatalf("AddCCD error: %v", err)
	}

	r := mustReflector(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.ListReflectors()
			_, _ = store.CCD("c")
		}()
		go func() {
			defer wg.Done()
			_ = store.AddReflector(fmt.Sprintf("r-%d", i), r)
		}()
	}
	wg.Wait()

	if r, _ := store.Counts(); r != 10 {
		t.Fatalf("reflectors = %d, want 10", r)
	}
}

func TestKindString(t *testing.T) {
	if KindReflector.String() != "reflector" || KindCCD.String() != "ccd" {
		t.Fatalf("unexpected kind names %q %q", KindReflector, KindCCD)
	}
}
