// Package systems provides the per-agent simulation solvers: spatial index,
// containment volume, steering, retargeting, orientation and wiggle.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	Pos    r3.Vec  // Position at the last rebuild
	Delta  r3.Vec  // Neighbor position minus query point
	DistSq float64 // Squared distance (avoid sqrt in hot path)
}

// Entry is an entity and the position it is indexed at.
type Entry struct {
	E   ecs.Entity
	Pos r3.Vec
}

type cellKey struct {
	X, Y, Z int32
}

// SpatialIndex is a uniform-grid hash over unbounded 3D space. It is rebuilt
// wholesale from settled positions and never patched incrementally.
type SpatialIndex struct {
	inv   float64 // 1 / cell size
	cells map[cellKey][]Entry
	count int
}

// NewSpatialIndex creates an index whose cells are cellSize on a side.
// Use the separation radius so a 3x3x3 block covers the interaction range.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialIndex{
		inv:   1 / cellSize,
		cells: make(map[cellKey][]Entry),
	}
}

// Len returns the number of indexed entries.
func (g *SpatialIndex) Len() int {
	return g.count
}

// Clear removes all entries. Cells used since the previous clear keep their
// capacity; cells that stayed empty are dropped so the map tracks where
// agents actually are.
func (g *SpatialIndex) Clear() {
	for k, v := range g.cells {
		if len(v) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = v[:0]
	}
	g.count = 0
}

// Insert adds an entity at the given position.
func (g *SpatialIndex) Insert(e ecs.Entity, pos r3.Vec) {
	k := g.key(pos)
	g.cells[k] = append(g.cells[k], Entry{E: e, Pos: pos})
	g.count++
}

// Rebuild clears the index and inserts every entry.
func (g *SpatialIndex) Rebuild(entries []Entry) {
	g.Clear()
	for _, en := range entries {
		g.Insert(en.E, en.Pos)
	}
}

// NeighborsInto appends every entry in the 3x3x3 block of cells around p to
// dst. The result is a superset of all entries within the cell size of p.
func (g *SpatialIndex) NeighborsInto(dst []Neighbor, p r3.Vec) []Neighbor {
	c := g.key(p)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				for _, en := range g.cells[cellKey{c.X + dx, c.Y + dy, c.Z + dz}] {
					d := r3.Sub(en.Pos, p)
					dst = append(dst, Neighbor{E: en.E, Pos: en.Pos, Delta: d, DistSq: r3.Norm2(d)})
				}
			}
		}
	}
	return dst
}

// NeighborsOf returns the 3x3x3 block around p.
// Use NeighborsInto to avoid allocations.
func (g *SpatialIndex) NeighborsOf(p r3.Vec) []Neighbor {
	return g.NeighborsInto(nil, p)
}

// QueryRadiusInto appends every entry within radius of p, excluding one
// entity. Radius larger than the cell size widens the cell block. The result
// is not truncated: a partial set would skew sums toward the cells walked first.
func (g *SpatialIndex) QueryRadiusInto(dst []Neighbor, p r3.Vec, radius float64, exclude ecs.Entity) []Neighbor {
	reach := int32(math.Ceil(radius * g.inv))
	if reach < 1 {
		reach = 1
	}
	radiusSq := radius * radius
	c := g.key(p)

	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for dz := -reach; dz <= reach; dz++ {
				for _, en := range g.cells[cellKey{c.X + dx, c.Y + dy, c.Z + dz}] {
					if en.E == exclude {
						continue
					}
					d := r3.Sub(en.Pos, p)
					distSq := r3.Norm2(d)
					if distSq > radiusSq {
						continue
					}
					dst = append(dst, Neighbor{E: en.E, Pos: en.Pos, Delta: d, DistSq: distSq})
				}
			}
		}
	}
	return dst
}

// key returns the cell containing p.
func (g *SpatialIndex) key(p r3.Vec) cellKey {
	return cellKey{
		X: int32(math.Floor(p.X * g.inv)),
		Y: int32(math.Floor(p.Y * g.inv)),
		Z: int32(math.Floor(p.Z * g.inv)),
	}
}
