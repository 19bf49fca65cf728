package plant

import (
	"strings"
)

// Rank is one of the seven canonical taxonomic levels.
type Rank string

const (
	RankKingdom Rank = "kingdom"
	RankPhylum  Rank = "phylum"
	RankClass   Rank = "class"
	RankOrder   Rank = "order"
	RankFamily  Rank = "family"
	RankGenus   Rank = "genus"
	RankSpecies Rank = "species"
)

// CanonicalRanks lists the rank vocabulary from kingdom to species.
var CanonicalRanks = []Rank{
	RankKingdom,
	RankPhylum,
	RankClass,
	RankOrder,
	RankFamily,
	RankGenus,
	RankSpecies,
}

// Valid reports whether r is a canonical rank.
func (r Rank) Valid() bool {
	for _, rank := range CanonicalRanks {
		if r == rank {
			return true
		}
	}
	return false
}

// Taxonomy maps canonical ranks to taxon names. It never holds other keys.
type Taxonomy map[Rank]string

// ParseTaxonomy keeps the canonical ranks of a loosely typed map. Unknown keys,
// non-string values, and blank names are dropped.
func ParseTaxonomy(raw map[string]any) Taxonomy {
	if len(raw) == 0 {
		return nil
	}
	tax := make(Taxonomy, len(raw))
	for key, value := range raw {
		rank := Rank(strings.ToLower(strings.TrimSpace(key)))
		if !rank.Valid() {
			continue
		}
		name, ok := value.(string)
		if !ok {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			tax[rank] = name
		}
	}
	if len(tax) == 0 {
		return nil
	}
	return tax
}

// Present returns the canonical ranks found in t, kingdom first.
func (t Taxonomy) Present() []Rank {
	ranks := make([]Rank, 0, len(t))
	for _, rank := range CanonicalRanks {
		if _, ok := t[rank]; ok {
			ranks = append(ranks, rank)
		}
	}
	return ranks
}

// Raw converts the taxonomy back into its wire form.
func (t Taxonomy) Raw() map[string]string {
	if len(t) == 0 {
		return nil
	}
	out := make(map[string]string, len(t))
	for rank, name := range t {
		out[string(rank)] = name
	}
	return out
}
