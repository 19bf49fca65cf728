package plant

import (
	"fmt"
	"strings"

	"planttracker/internal/services"
)

// Organ tags which part of the plant an image depicts.
type Organ string

const (
	OrganLeaf   Organ = "leaf"
	OrganFlower Organ = "flower"
	OrganFruit  Organ = "fruit"
	OrganBark   Organ = "bark"
	OrganAuto   Organ = "auto"
)

// Organs lists the accepted tags in display order.
var Organs = []Organ{OrganAuto, OrganLeaf, OrganFlower, OrganFruit, OrganBark}

// Valid reports whether o belongs to the fixed tag set.
func (o Organ) Valid() bool {
	switch o {
	case OrganLeaf, OrganFlower, OrganFruit, OrganBark, OrganAuto:
		return true
	default:
		return false
	}
}

func (o Organ) String() string { return string(o) }

// ParseOrgan converts user input into an Organ. Blank input means auto.
func ParseOrgan(value string) (Organ, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return OrganAuto, nil
	}
	organ := Organ(trimmed)
	if !organ.Valid() {
		return "", fmt.Errorf("%w: unknown organ %q", services.ErrValidation, value)
	}
	return organ, nil
}
