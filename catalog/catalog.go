package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/signalsfoundry/solary/constants"
	"github.com/signalsfoundry/solary/instrument"
)

var (
	ErrInstrumentExists   = errors.New("instrument already exists")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrInvalidInstrument  = errors.New("invalid instrument")
)

// Kind tells reflectors and CCDs apart.
type Kind int

const (
	KindReflector Kind = iota
	KindCCD
)

func (k Kind) String() string {
	switch k {
	case KindReflector:
		return "reflector"
	case KindCCD:
		return "ccd"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// EventType indicates what kind of change happened in the catalog.
type EventType int

const (
	EventInstrumentAdded EventType = iota
	EventInstrumentRemoved
)

// Event is emitted to subscribers after a change has been committed.
type Event struct {
	Type EventType
	Kind Kind
	Name string
}

// Catalog is an in-memory, thread-safe registry of named reflectors and
// CCDs. Instruments are immutable, so callers may share the returned
// pointers freely.
type Catalog struct {
	mu sync.RWMutex

	reflectors map[string]*instrument.Reflector
	ccds       map[string]*instrument.CCD

	subs   map[int]func(Event)
	nextID int
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		reflectors: make(map[string]*instrument.Reflector),
		ccds:       make(map[string]*instrument.CCD),
		subs:       make(map[int]func(Event)),
	}
}

// AddReflector registers r under name.
func (c *Catalog) AddReflector(name string, r *instrument.Reflector) error {
	name = strings.TrimSpace(name)
	if name == "" || r == nil {
		return fmt.Errorf("%w: nil reflector or empty name", ErrInvalidInstrument)
	}

	c.mu.Lock()
	if _, exists := c.reflectors[name]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: reflector %q", ErrInstrumentExists, name)
	}
	c.reflectors[name] = r
	subs := c.snapshotSubsLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventInstrumentAdded, Kind: KindReflector, Name: name})
	return nil
}

// AddCCD registers ccd under name.
func (c *Catalog) AddCCD(name string, ccd *instrument.CCD) error {
	name = strings.TrimSpace(name)
	if name == "" || ccd == nil {
		return fmt.Errorf("%w: nil ccd or empty name", ErrInvalidInstrument)
	}

	c.mu.Lock()
	if _, exists := c.ccds[name]; exists {
		c.mu.Unlock()
		return fmt.Errorf("%w: ccd %q", ErrInstrumentExists, name)
	}
	c.ccds[name] = ccd
	subs := c.snapshotSubsLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventInstrumentAdded, Kind: KindCCD, Name: name})
	return nil
}

// Reflector returns the reflector registered under name.
func (c *Catalog) Reflector(name string) (*instrument.Reflector, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reflectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: reflector %q", ErrInstrumentNotFound, name)
	}
	return r, nil
}

// CCD returns the CCD registered under name.
func (c *Catalog) CCD(name string) (*instrument.CCD, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ccd, ok := c.ccds[name]
	if !ok {
		return nil, fmt.Errorf("%w: ccd %q", ErrInstrumentNotFound, name)
	}
	return ccd, nil
}

// Remove deletes the instrument of the given kind and name.
func (c *Catalog) Remove(kind Kind, name string) error {
	c.mu.Lock()
	var ok bool
	switch kind {
	case KindReflector:
		_, ok = c.reflectors[name]
		delete(c.reflectors, name)
	case KindCCD:
		_, ok = c.ccds[name]
		delete(c.ccds, name)
	}
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s %q", ErrInstrumentNotFound, kind, name)
	}
	subs := c.snapshotSubsLocked()
	c.mu.Unlock()

	notify(subs, Event{Type: EventInstrumentRemoved, Kind: kind, Name: name})
	return nil
}

// ListReflectors returns the sorted names of all reflectors.
func (c *Catalog) ListReflectors() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.reflectors)
}

// ListCCDs returns the sorted names of all CCDs.
func (c *Catalog) ListCCDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.ccds)
}

// Counts returns the number of registered reflectors and CCDs.
func (c *Catalog) Counts() (reflectors, ccds int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reflectors), len(c.ccds)
}

// Telescope composes a fresh Telescope from the named instruments. The
// result has no observation settings and belongs to the caller.
func (c *Catalog) Telescope(reflector, ccd string, consts *constants.Constants) (*instrument.Telescope, error) {
	r, err := c.Reflector(reflector)
	if err != nil {
		return nil, err
	}
	cam, err := c.CCD(ccd)
	if err != nil {
		return nil, err
	}
	return instrument.NewTelescope(r, cam, consts)
}

// Subscribe registers a callback for catalog events. Callbacks run on the
// goroutine that made the change, outside the catalog lock. It returns an
// unsubscribe function.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Catalog) snapshotSubsLocked() []func(Event) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.subs[id])
	}
	return out
}

func notify(subs []func(Event), e Event) {
	for _, sub := range subs {
		sub(e)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
