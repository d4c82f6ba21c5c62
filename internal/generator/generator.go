// Package generator implements the four monotone generation passes —
// terrain, cave carving, ore lodes and tree decoration — driven by the
// NoiseService and written against the voxel.Chunk primitive. Generator
// never references voxel.World directly (see SPEC_FULL.md §5.5 / spec.md
// §9): cross-chunk decoration writes are returned as a list of
// voxel.ExternalWrite values for World to apply under its own locking.
package generator

import (
	"math"

	"voxelcore/internal/blocks"
	"voxelcore/internal/config"
	"voxelcore/internal/noise"
	"voxelcore/internal/voxel"
)

// Generator runs the terrain/carve/oreFill/decorate passes for a catalog
// and config, against a shared NoiseService.
type Generator struct {
	cfg     config.Config
	catalog *blocks.Catalog
	noise   *noise.Service
}

// New builds a Generator. It implements voxel.Generator structurally.
func New(cfg config.Config, catalog *blocks.Catalog, n *noise.Service) *Generator {
	return &Generator{cfg: cfg, catalog: catalog, noise: n}
}

var _ voxel.Generator = (*Generator)(nil)

func (g *Generator) columnOrigin(c *voxel.Chunk) (baseX, baseZ int) {
	cw := c.Width()
	return c.Coord.CX * cw, c.Coord.CZ * cw
}

// Terrain fills a freshly created chunk per the height-map rule in
// SPEC_FULL.md §5.5 / spec.md §4.5.1, with the bedrock floor and optional
// water/sand shore dressing layered on top.
func (g *Generator) Terrain(c *voxel.Chunk) {
	cw, ch := c.Width(), c.Height()
	baseX, baseZ := g.columnOrigin(c)

	for x := 0; x < cw; x++ {
		for z := 0; z < cw; z++ {
			wx, wz := baseX+x, baseZ+z
			n := g.noise.Noise2(float64(wx), float64(wz), g.cfg.BiomeFreq)
			h := int(math.Floor(n*g.cfg.TerrainAmp + g.cfg.TerrainBase))

			for y := 0; y < ch; y++ {
				var id blocks.ID
				switch {
				case y > h:
					id = blocks.Air
				case y == h:
					id = blocks.Grass
				case y >= h-4:
					id = blocks.Dirt
				default:
					id = blocks.Stone
				}

				switch {
				case y == 0:
					id = blocks.Bedrock
				case id == blocks.Air && y <= g.cfg.WaterLevel:
					id = blocks.Water
				case y == h && h <= g.cfg.SandLevel:
					id = blocks.Sand
				}

				c.SetLocal(x, y, z, id)
			}
		}
	}
}

// Carve runs the cave pass: interior cells whose composite cave noise
// exceeds the threshold are hollowed out. The bedrock floor at y=0 is
// never visited.
func (g *Generator) Carve(c *voxel.Chunk) {
	cw, ch := c.Width(), c.Height()
	baseX, baseZ := g.columnOrigin(c)

	for x := 0; x < cw; x++ {
		for z := 0; z < cw; z++ {
			wx, wz := baseX+x, baseZ+z
			for y := 1; y < ch-1; y++ {
				if c.GetLocal(x, y, z) == blocks.Air {
					continue
				}
				n := g.noise.CaveNoise(float64(wx), float64(y), float64(wz),
					g.cfg.CaveLargeFreq, g.cfg.CaveMediumFreq, g.cfg.CaveSmallFreq)
				if n > g.cfg.CaveThreshold {
					c.SetLocal(x, y, z, blocks.Air)
				}
			}
		}
	}
}

// OreFill runs the ore lode pass: each configured lode gates its own
// noise field and replaces cells within its Y band that were STONE before
// the pass. Lodes are processed in config order; later lodes overwrite
// earlier ones on the same cell.
func (g *Generator) OreFill(c *voxel.Chunk) {
	cw, ch := c.Width(), c.Height()
	baseX, baseZ := g.columnOrigin(c)

	// placed holds the ore IDs written by earlier lodes in this pass; those
	// cells were STONE before the pass and stay eligible for later lodes.
	placed := make(map[blocks.ID]bool)
	for _, lode := range g.cfg.Lodes {
		id, ok := g.catalog.Lookup(lode.ID)
		if !ok {
			continue
		}
		minY, maxY := lode.MinY, lode.MaxY
		if maxY >= ch {
			maxY = ch - 1
		}
		if minY < 0 {
			minY = 0
		}

		for x := 0; x < cw; x++ {
			for z := 0; z < cw; z++ {
				wx, wz := baseX+x, baseZ+z
				for y := minY; y <= maxY; y++ {
					if cur := c.GetLocal(x, y, z); cur != blocks.Stone && !placed[cur] {
						continue
					}
					n := g.noise.Noise3(float64(wx)+lode.Offset, float64(y), float64(wz)+lode.Offset, lode.Freq)
					if n > lode.Threshold {
						c.SetLocal(x, y, z, id)
					}
				}
			}
		}
		placed[id] = true
	}
}

// canopyOffset is one (dx, dz) cell in a canopy layer's footprint.
type canopyOffset struct{ dx, dz int }

func ringOffsets(half int) []canopyOffset {
	var out []canopyOffset
	for dx := -half; dx <= half; dx++ {
		for dz := -half; dz <= half; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			out = append(out, canopyOffset{dx, dz})
		}
	}
	return out
}

func plusOffsets() []canopyOffset {
	return []canopyOffset{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}
}

// canopyLayer pairs a ΔY (measured from h+H-3 upward, per Table 1) with its footprint.
type canopyLayer struct {
	dy       int
	offsets  []canopyOffset
}

func canopyLayers() []canopyLayer {
	return []canopyLayer{
		{0, ringOffsets(2)},
		{1, ringOffsets(2)},
		{2, ringOffsets(1)},
		{3, plusOffsets()},
	}
}

// splitmix64 is a stable integer hash, used to draw a deterministic tree
// height from (seed, wx, wz) independent of chunk generation order.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

func treeHeight(seed int64, wx, wz, min, max int) int {
	span := max - min
	if span <= 0 {
		return min
	}
	h := splitmix64(uint64(wx)*0x9E3779B97F4A7C15 ^ uint64(wz)*0xBF58476D1CE4E5B9 ^ uint64(seed))
	return min + int(h%uint64(span))
}

// Decorate runs the tree pass over every GRASS-topped column in the chunk.
// Trunks land entirely within the originating chunk; leaves that land in a
// neighbouring column are returned as ExternalWrite values for World to
// apply (only into cells that are AIR at write time).
func (g *Generator) Decorate(c *voxel.Chunk) []voxel.ExternalWrite {
	cw, ch := c.Width(), c.Height()
	baseX, baseZ := g.columnOrigin(c)

	logID, _ := g.catalog.Lookup("log_oak")
	leafID, _ := g.catalog.Lookup("leaves_oak")

	var writes []voxel.ExternalWrite

	for x := 0; x < cw; x++ {
		for z := 0; z < cw; z++ {
			h := -1
			for y := ch - 1; y >= 0; y-- {
				if c.GetLocal(x, y, z) != blocks.Air {
					h = y
					break
				}
			}
			if h < 0 || c.GetLocal(x, h, z) != blocks.Grass {
				continue
			}

			wx, wz := baseX+x, baseZ+z

			zoneN := g.noise.Noise2(float64(wx)+g.cfg.TreeZoneOffset, float64(wz)+g.cfg.TreeZoneOffset, g.cfg.TreeZoneFreq)
			if zoneN <= g.cfg.TreeZoneThreshold {
				continue
			}
			placeN := g.noise.Noise2(float64(wx)+g.cfg.TreePlacementOffset, float64(wz)+g.cfg.TreePlacementOffset, g.cfg.TreePlacementFreq)
			if placeN <= g.cfg.TreePlacementThreshold {
				continue
			}

			height := treeHeight(g.cfg.Seed, wx, wz, g.cfg.TreeMinHeight, g.cfg.TreeMaxHeight)
			if h+height >= ch {
				continue
			}

			for dy := 1; dy <= height; dy++ {
				c.SetLocal(x, h+dy, z, logID)
			}

			canopyBaseY := h + height - 3
			for _, layer := range canopyLayers() {
				y := canopyBaseY + layer.dy
				if y < 0 || y >= ch {
					continue
				}
				for _, off := range layer.offsets {
					lx, lz := x+off.dx, z+off.dz
					if lx >= 0 && lx < cw && lz >= 0 && lz < cw {
						if c.GetLocal(lx, y, lz) == blocks.Air {
							c.SetLocal(lx, y, lz, leafID)
						}
						continue
					}
					writes = append(writes, voxel.ExternalWrite{
						WX: wx + off.dx, WY: y, WZ: wz + off.dz, ID: leafID, OnlyIfAir: true,
					})
				}
			}
		}
	}

	return writes
}
