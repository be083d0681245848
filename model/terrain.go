package model

import (
	"math/rand/v2"

	"github.com/nstehr/vimy/vimy-squads/random"
	"github.com/paulmach/orb"
)

// TerrainType classifies a coarse grid zone.
type TerrainType byte

const (
	Land   TerrainType = 0 // passable ground
	Water  TerrainType = 1 // air only
	Cliff  TerrainType = 2 // impassable and never worth exploring
	Bridge TerrainType = 3 // land corridor over water
)

// TerrainGrid is a coarse exploration grid. Each zone covers CellW x CellH
// map pixels and remembers the last tick any of our units stood in it, which
// drives "explore the least recently seen place" targeting.
type TerrainGrid struct {
	Cols     int           // grid columns
	Rows     int           // grid rows
	CellW    int           // map pixels per grid column
	CellH    int           // map pixels per grid row
	Grid     []TerrainType // row-major: Grid[row*Cols + col]
	LastSeen []int         // row-major tick of last sighting; 0 = never
}

// NewTerrainGrid builds a grid with empty exploration history.
func NewTerrainGrid(cols, rows, cellW, cellH int, grid []TerrainType) *TerrainGrid {
	if len(grid) != cols*rows {
		grid = make([]TerrainType, cols*rows)
	}
	return &TerrainGrid{
		Cols:     cols,
		Rows:     rows,
		CellW:    cellW,
		CellH:    cellH,
		Grid:     grid,
		LastSeen: make([]int, cols*rows),
	}
}

// At returns the terrain type at grid coordinates (col, row).
// Returns Land for out-of-bounds coordinates.
func (g *TerrainGrid) At(col, row int) TerrainType {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return Land
	}
	return g.Grid[row*g.Cols+col]
}

// zoneOf converts a map position to grid coordinates; ok is false off-grid.
func (g *TerrainGrid) zoneOf(p orb.Point) (col, row int, ok bool) {
	if g.CellW <= 0 || g.CellH <= 0 || p[0] < 0 || p[1] < 0 {
		return 0, 0, false
	}
	col = int(p[0]) / g.CellW
	row = int(p[1]) / g.CellH
	if col >= g.Cols || row >= g.Rows {
		return 0, 0, false
	}
	return col, row, true
}

// AtMapPos returns the terrain at a map position. Returns Land for
// out-of-bounds positions or zero-sized cells.
func (g *TerrainGrid) AtMapPos(p orb.Point) TerrainType {
	col, row, ok := g.zoneOf(p)
	if !ok {
		return Land
	}
	return g.At(col, row)
}

// ZoneCenter returns the map position of the center of zone (col, row).
func (g *TerrainGrid) ZoneCenter(col, row int) orb.Point {
	return orb.Point{
		float64(col*g.CellW + g.CellW/2),
		float64(row*g.CellH + g.CellH/2),
	}
}

// MarkSeen records that p was in sight at tick.
func (g *TerrainGrid) MarkSeen(p orb.Point, tick int) {
	col, row, ok := g.zoneOf(p)
	if !ok || len(g.LastSeen) != g.Cols*g.Rows {
		return
	}
	g.LastSeen[row*g.Cols+col] = tick
}

// LeastExplored returns the center of the zone seen longest ago. With
// groundOnly, water zones are skipped. Cliffs are never chosen. Ties are
// broken uniformly at random.
func (g *TerrainGrid) LeastExplored(groundOnly bool, rng *rand.Rand) (orb.Point, bool) {
	if len(g.LastSeen) != g.Cols*g.Rows {
		return orb.Point{}, false
	}
	best := -1
	pick := random.NewReservoir[int](rng)
	for i, t := range g.Grid {
		if t == Cliff || (groundOnly && t == Water) {
			continue
		}
		switch seen := g.LastSeen[i]; {
		case best < 0 || seen < best:
			best = seen
			pick.Reset()
			pick.Offer(i)
		case seen == best:
			pick.Offer(i)
		}
	}
	i, ok := pick.Pick()
	if !ok {
		return orb.Point{}, false
	}
	return g.ZoneCenter(i%g.Cols, i/g.Cols), true
}
