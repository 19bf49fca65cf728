package taxonomy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planttracker/internal/plant"
	"planttracker/internal/taxonomy"
)

func sparse() plant.Taxonomy {
	return plant.Taxonomy{
		plant.RankKingdom: "Plantae",
		plant.RankGenus:   "Rosa",
		plant.RankSpecies: "gallica",
	}
}

func TestLayoutSkipsAbsentRanksWithoutGaps(t *testing.T) {
	d := taxonomy.Layout(sparse(), taxonomy.Wide)

	require.Len(t, d.Nodes, 3)
	assert.Equal(t, []plant.Rank{plant.RankKingdom, plant.RankGenus, plant.RankSpecies},
		[]plant.Rank{d.Nodes[0].Rank, d.Nodes[1].Rank, d.Nodes[2].Rank})
	assert.Equal(t, []taxonomy.Edge{{From: 0, To: 1}, {From: 1, To: 2}}, d.Edges)

	assert.Equal(t, []float64{18, 128, 238}, []float64{d.Nodes[0].X, d.Nodes[1].X, d.Nodes[2].X})
	for _, n := range d.Nodes {
		assert.Equal(t, 38.0, n.Y)
	}
	assert.Equal(t, 256.0, d.Width)
	assert.Equal(t, 120.0, d.Height)

	assert.Equal(t, "K", d.Nodes[0].Badge)
	assert.Equal(t, "Genus", d.Nodes[1].Label)
	assert.Equal(t, "gallica", d.Nodes[2].Value)
}

func TestLayoutNarrowStacksVertically(t *testing.T) {
	d := taxonomy.Layout(sparse(), taxonomy.Narrow)

	require.Len(t, d.Nodes, 3)
	assert.Equal(t, []float64{14, 78, 142}, []float64{d.Nodes[0].Y, d.Nodes[1].Y, d.Nodes[2].Y})
	for _, n := range d.Nodes {
		assert.Equal(t, 30.0, n.X)
	}
	assert.Equal(t, 200.0, d.Width)
	assert.Equal(t, 156.0, d.Height)

	wide := taxonomy.Layout(sparse(), taxonomy.Wide)
	for i := range d.Nodes {
		assert.Equal(t, wide.Nodes[i].Rank, d.Nodes[i].Rank, "rank selection is mode independent")
	}
	assert.Equal(t, wide.Edges, d.Edges)
}

func TestLayoutBoundsContainNodes(t *testing.T) {
	full := plant.Taxonomy{}
	for _, rank := range plant.CanonicalRanks {
		full[rank] = "x"
	}
	for _, mode := range []taxonomy.Mode{taxonomy.Wide, taxonomy.Narrow} {
		d := taxonomy.Layout(full, mode)
		require.Len(t, d.Nodes, 7)
		assert.Len(t, d.Edges, 6)
		for _, n := range d.Nodes {
			assert.GreaterOrEqual(t, n.X-d.Radius, 0.0)
			assert.GreaterOrEqual(t, n.Y-d.Radius, 0.0)
			assert.LessOrEqual(t, n.X+d.Radius, d.Width)
			assert.LessOrEqual(t, n.Y+d.Radius, d.Height)
		}
	}
}

func TestLayoutEmptyAndSingle(t *testing.T) {
	d := taxonomy.Layout(nil, taxonomy.Wide)
	assert.Empty(t, d.Nodes)
	assert.Empty(t, d.Edges)
	assert.Zero(t, d.Width)

	d = taxonomy.Layout(plant.Taxonomy{plant.RankFamily: "Rosaceae"}, taxonomy.Narrow)
	require.Len(t, d.Nodes, 1)
	assert.Empty(t, d.Edges)
	assert.Equal(t, 28.0, d.Height)
}

func TestParseMode(t *testing.T) {
	mode, err := taxonomy.ParseMode("NARROW")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Narrow, mode)

	mode, err = taxonomy.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Wide, mode)

	_, err = taxonomy.ParseMode("diagonal")
	assert.Error(t, err)
}
