package engine

import (
	"fmt"

	"github.com/DoyleJ11/squad-randomizer/internal/catalog"
	"github.com/DoyleJ11/squad-randomizer/internal/constraints"
	"github.com/DoyleJ11/squad-randomizer/internal/sample"
)

// MapPin is a map fixed for the session. It only applies while Active.
type MapPin struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SelectMap returns the pinned map when the pin is active, otherwise a
// uniform draw from the non-excluded maps. A pinned map wins over exclusions.
func SelectMap(ex constraints.Set, cat *catalog.Catalog, pin MapPin, src sample.Source) (string, error) {
	if pin.Active && pin.Name != "" {
		return pin.Name, nil
	}
	m, ok := sample.Pick(src, ex.MapPool(cat))
	if !ok {
		return "", fmt.Errorf("%w: every map is excluded", ErrNoEligibleOptions)
	}
	return m, nil
}
