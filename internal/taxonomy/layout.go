package taxonomy

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"planttracker/internal/plant"
)

// Mode selects the layout axis.
type Mode string

const (
	Wide   Mode = "wide"
	Narrow Mode = "narrow"
)

// ParseMode accepts wide or narrow, case-insensitively. Blank means wide.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", Wide:
		return Wide, nil
	case Narrow:
		return Narrow, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (want wide or narrow)", value)
	}
}

// Geometry holds the per-mode constants.
type Geometry struct {
	Radius  float64
	Spacing float64
	Margin  float64
	// Extent is the cross-axis size: the track height in wide mode, the label
	// gutter in narrow mode.
	Extent float64
}

var geometries = map[Mode]Geometry{
	Wide:   {Radius: 18, Spacing: 110, Margin: 20, Extent: 80},
	Narrow: {Radius: 14, Spacing: 64, Margin: 16, Extent: 140},
}

// GeometryFor returns the constants used for mode.
func GeometryFor(mode Mode) Geometry {
	if g, ok := geometries[mode]; ok {
		return g
	}
	return geometries[Wide]
}

// Node is one positioned rank.
type Node struct {
	Rank  plant.Rank `json:"rank"`
	Value string     `json:"value"`
	Badge string     `json:"badge"`
	Label string     `json:"label"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// Edge joins Nodes[From] to Nodes[To].
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Diagram is the laid-out chain.
type Diagram struct {
	Mode   Mode    `json:"mode"`
	Radius float64 `json:"radius"`
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Layout positions the present ranks of tax.
func Layout(tax plant.Taxonomy, mode Mode) Diagram {
	if mode != Narrow {
		mode = Wide
	}
	g := GeometryFor(mode)
	ranks := tax.Present()
	diagram := Diagram{Mode: mode, Radius: g.Radius, Nodes: []Node{}, Edges: []Edge{}}
	if len(ranks) == 0 {
		return diagram
	}

	title := cases.Title(language.English)
	for i, rank := range ranks {
		offset := g.Radius + float64(i)*g.Spacing
		node := Node{
			Rank:  rank,
			Value: tax[rank],
			Badge: strings.ToUpper(string(rank)[:1]),
			Label: title.String(string(rank)),
		}
		if mode == Wide {
			node.X, node.Y = offset, g.Radius+g.Margin
		} else {
			node.X, node.Y = g.Radius+g.Margin, offset
		}
		diagram.Nodes = append(diagram.Nodes, node)
		if i > 0 {
			diagram.Edges = append(diagram.Edges, Edge{From: i - 1, To: i})
		}
	}

	span := g.Spacing*float64(len(ranks)-1) + 2*g.Radius
	if mode == Wide {
		diagram.Width = span
		diagram.Height = g.Extent + 2*g.Margin
	} else {
		diagram.Width = 2*g.Radius + 2*g.Margin + g.Extent
		diagram.Height = span
	}
	return diagram
}
