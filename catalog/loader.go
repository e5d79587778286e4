// catalog/loader.go
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/signalsfoundry/solary/instrument"
)

// Inventory is a summary of what LoadInventory registered.
type Inventory struct {
	Reflectors []string
	CCDs       []string
}

// internal JSON shape; the records themselves are decoded by the
// instrument loaders.
type inventoryJSON struct {
	Reflectors map[string]json.RawMessage `json:"reflectors"`
	CCDs       map[string]json.RawMessage `json:"ccds"`
}

// LoadInventory reads a JSON inventory of the form
//
//	{"reflectors": {"name": {...}}, "ccds": {"name": {...}}}
//
// from r and registers every instrument in c. Loading stops at the first
// failing record; instruments registered before it stay in the catalog.
func LoadInventory(c *Catalog, r io.Reader) (*Inventory, error) {
	if c == nil {
		return nil, fmt.Errorf("LoadInventory: catalog is nil")
	}

	var payload inventoryJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadInventory: %w: decode failed: %v", ErrInvalidInstrument, err)
	}

	inv := &Inventory{}

	for _, name := range sortedKeys(payload.Reflectors) {
		refl, err := instrument.LoadReflector(bytes.NewReader(payload.Reflectors[name]))
		if err != nil {
			return nil, fmt.Errorf("LoadInventory: reflector %q: %w", name, err)
		}
		if err := c.AddReflector(name, refl); err != nil {
			return nil, fmt.Errorf("LoadInventory: %w", err)
		}
		inv.Reflectors = append(inv.Reflectors, name)
	}

	for _, name := range sortedKeys(payload.CCDs) {
		ccd, err := instrument.LoadCCD(bytes.NewReader(payload.CCDs[name]))
		if err != nil {
			return nil, fmt.Errorf("LoadInventory: ccd %q: %w", name, err)
		}
		if err := c.AddCCD(name, ccd); err != nil {
			return nil, fmt.Errorf("LoadInventory: %w", err)
		}
		inv.CCDs = append(inv.CCDs, name)
	}

	sort.Strings(inv.Reflectors)
	sort.Strings(inv.CCDs)
	return inv, nil
}

// LoadInventoryFile is LoadInventory on the file at path.
func LoadInventoryFile(c *Catalog, path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadInventoryFile: %w", err)
	}
	defer f.Close()
	return LoadInventory(c, f)
}
