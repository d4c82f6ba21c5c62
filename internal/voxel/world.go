package voxel

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/blocks"
	"voxelcore/internal/config"
)

// ExternalWrite is a single voxel write a generation pass wants to apply to
// a chunk other than the one it was invoked on (tree canopies crossing a
// chunk boundary). World applies these, locking per destination chunk, so
// the generator never needs a back-reference to World or reentrant locks.
type ExternalWrite struct {
	WX, WY, WZ int
	ID         blocks.ID
	OnlyIfAir  bool
}

// Generator is the interface World drives its four generation passes
// through. generator.Generator implements it; World depends only on this
// interface to avoid a package import cycle (generator needs *Chunk,
// World needs Generator, neither needs the other's concrete package).
type Generator interface {
	Terrain(c *Chunk)
	Carve(c *Chunk)
	OreFill(c *Chunk)
	Decorate(c *Chunk) []ExternalWrite
}

// World maps ChunkCoord to Chunk and exposes the world-space query/edit API.
type World struct {
	cfg     config.Config
	catalog *blocks.Catalog
	gen     Generator

	mu      sync.RWMutex
	chunks  map[ChunkCoord]*Chunk
	onDirty func(*Chunk)
}

// New constructs a World over the given config, catalog and generator.
func New(cfg config.Config, catalog *blocks.Catalog, gen Generator) *World {
	return &World{
		cfg:     cfg,
		catalog: catalog,
		gen:     gen,
		chunks:  make(map[ChunkCoord]*Chunk),
	}
}

// Config returns the world's configuration.
func (w *World) Config() config.Config { return w.cfg }

// Catalog returns the world's block catalog.
func (w *World) Catalog() *blocks.Catalog { return w.catalog }

// OnDirty registers a callback invoked whenever an edit marks a chunk
// dirty, so a StreamingManager can enqueue it directly instead of waiting
// for its next full scan, per spec.md §4.6 ("edits enqueue affected
// chunks directly"). At most one listener is supported; New callers
// replace the previous one.
func (w *World) OnDirty(fn func(*Chunk)) {
	w.mu.Lock()
	w.onDirty = fn
	w.mu.Unlock()
}

func (w *World) notifyDirty(c *Chunk) {
	w.mu.RLock()
	fn := w.onDirty
	w.mu.RUnlock()
	if fn != nil {
		fn(c)
	}
}

func floorDiv(a, b int) int {
	if a < 0 {
		return (a - b + 1) / b
	}
	return a / b
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// ChunkCoordFor returns the chunk coordinate containing world column (wx, wz).
func (w *World) ChunkCoordFor(wx, wz int) ChunkCoord {
	return ChunkCoord{CX: floorDiv(wx, w.cfg.ChunkWidth), CZ: floorDiv(wz, w.cfg.ChunkWidth)}
}

// LocalCoordFor returns the local coordinate of world voxel (wx, wy, wz)
// within its owning chunk.
func (w *World) LocalCoordFor(wx, wy, wz int) LocalCoord {
	return LocalCoord{X: mod(wx, w.cfg.ChunkWidth), Y: wy, Z: mod(wz, w.cfg.ChunkWidth)}
}

// inFiniteBounds reports whether a chunk column is within the configured
// finite world. WorldWidth == 0 means unbounded.
func (w *World) inFiniteBounds(coord ChunkCoord) bool {
	if w.cfg.WorldWidth <= 0 {
		return true
	}
	return coord.CX >= 0 && coord.CX < w.cfg.WorldWidth && coord.CZ >= 0 && coord.CZ < w.cfg.WorldWidth
}

// GetChunk returns the chunk at coord without creating it.
func (w *World) GetChunk(coord ChunkCoord) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[coord]
	return c, ok
}

// EnsureChunk returns the chunk at (cx, cz), creating and terrain-populating
// it synchronously if it does not yet exist. Idempotent.
func (w *World) EnsureChunk(cx, cz int) *Chunk {
	coord := ChunkCoord{CX: cx, CZ: cz}

	w.mu.RLock()
	c, ok := w.chunks[coord]
	w.mu.RUnlock()
	if ok {
		return c
	}

	w.mu.Lock()
	if c, ok = w.chunks[coord]; ok {
		w.mu.Unlock()
		return c
	}
	c = NewChunk(coord, w.cfg.ChunkWidth, w.cfg.ChunkHeight)
	w.chunks[coord] = c
	w.mu.Unlock()

	w.gen.Terrain(c)
	c.MarkPopulated()
	c.MarkDirty()
	return c
}

// RunGenerationPasses runs carve, oreFill and decorate on c if not already
// done (each pass is flag-guarded and runs at most once), and applies any
// cross-chunk decoration writes (via setVoxelIfAir for OnlyIfAir writes,
// SetVoxel otherwise), ensuring their destination chunks are populated first.
func (w *World) RunGenerationPasses(c *Chunk) {
	if !c.Populated() {
		return
	}
	if !c.Carved() {
		w.gen.Carve(c)
		c.MarkCarved()
	}
	if !c.OreFilled() {
		w.gen.OreFill(c)
		c.MarkOreFilled()
	}
	if !c.Decorated() {
		writes := w.gen.Decorate(c)
		c.MarkDecorated()
		for _, wr := range writes {
			if wr.OnlyIfAir {
				w.setVoxelIfAir(wr.WX, wr.WY, wr.WZ, wr.ID)
			} else {
				w.SetVoxel(wr.WX, wr.WY, wr.WZ, wr.ID)
			}
		}
	}
}

// setVoxelIfAir applies an ExternalWrite that must not clobber an existing
// block (the decoration pass's "never overwrite non-air" leaf rule).
func (w *World) setVoxelIfAir(wx, wy, wz int, id blocks.ID) {
	if wy < 0 || wy >= w.cfg.ChunkHeight {
		return
	}
	coord := w.ChunkCoordFor(wx, wz)
	if !w.inFiniteBounds(coord) {
		return
	}
	c := w.EnsureChunk(coord.CX, coord.CZ)
	local := w.LocalCoordFor(wx, wy, wz)
	if c.GetLocal(local.X, local.Y, local.Z) != blocks.Air {
		return
	}
	c.SetLocal(local.X, local.Y, local.Z, id)
	w.notifyDirty(c)
	w.markBoundaryNeighboursDirty(coord, local)
}

// markBoundaryNeighboursDirty marks the (up to two) horizontal neighbour
// chunks dirty when local lies on a chunk boundary, notifying any
// registered dirty listener for each.
func (w *World) markBoundaryNeighboursDirty(coord ChunkCoord, local LocalCoord) {
	cw := w.cfg.ChunkWidth
	if local.X == 0 {
		if nb, ok := w.GetChunk(ChunkCoord{CX: coord.CX - 1, CZ: coord.CZ}); ok {
			nb.MarkDirty()
			w.notifyDirty(nb)
		}
	} else if local.X == cw-1 {
		if nb, ok := w.GetChunk(ChunkCoord{CX: coord.CX + 1, CZ: coord.CZ}); ok {
			nb.MarkDirty()
			w.notifyDirty(nb)
		}
	}
	if local.Z == 0 {
		if nb, ok := w.GetChunk(ChunkCoord{CX: coord.CX, CZ: coord.CZ - 1}); ok {
			nb.MarkDirty()
			w.notifyDirty(nb)
		}
	} else if local.Z == cw-1 {
		if nb, ok := w.GetChunk(ChunkCoord{CX: coord.CX, CZ: coord.CZ + 1}); ok {
			nb.MarkDirty()
			w.notifyDirty(nb)
		}
	}
}

// VoxelAt resolves a world voxel. AIR is returned for vertical out-of-range
// and for chunks outside the finite world.
func (w *World) VoxelAt(wx, wy, wz int) blocks.ID {
	if wy < 0 || wy >= w.cfg.ChunkHeight {
		return blocks.Air
	}
	coord := w.ChunkCoordFor(wx, wz)
	if !w.inFiniteBounds(coord) {
		return blocks.Air
	}
	c, ok := w.GetChunk(coord)
	if !ok {
		return blocks.Air
	}
	local := w.LocalCoordFor(wx, wy, wz)
	return c.GetLocal(local.X, local.Y, local.Z)
}

// IsSolidAt reports solidity, with boundary policy: outside the finite
// world horizontally is treated as solid (so boundary faces never draw
// outward); outside [0, CH) vertically is treated as not solid (open sky).
func (w *World) IsSolidAt(wx, wy, wz int) bool {
	if wy < 0 || wy >= w.cfg.ChunkHeight {
		return false
	}
	coord := w.ChunkCoordFor(wx, wz)
	if !w.inFiniteBounds(coord) {
		return true
	}
	return w.catalog.Solid(w.VoxelAt(wx, wy, wz))
}

// IsTransparentAt reports transparency, with boundary policy: out-of-range
// vertically is transparent; outside the finite world horizontally is opaque.
func (w *World) IsTransparentAt(wx, wy, wz int) bool {
	if wy < 0 || wy >= w.cfg.ChunkHeight {
		return true
	}
	coord := w.ChunkCoordFor(wx, wz)
	if !w.inFiniteBounds(coord) {
		return false
	}
	return w.catalog.Transparent(w.VoxelAt(wx, wy, wz))
}

// SetVoxel writes a voxel, populating its chunk first if needed, marking
// the chunk (and up to two horizontal neighbours, if the edit landed on a
// chunk boundary) dirty. Writes outside the finite world are silently
// ignored. Vertical edits never cross a chunk boundary: chunks are
// full-height columns.
func (w *World) SetVoxel(wx, wy, wz int, id blocks.ID) {
	if wy < 0 || wy >= w.cfg.ChunkHeight {
		return
	}
	coord := w.ChunkCoordFor(wx, wz)
	if !w.inFiniteBounds(coord) {
		return
	}

	c := w.EnsureChunk(coord.CX, coord.CZ)
	local := w.LocalCoordFor(wx, wy, wz)
	c.SetLocal(local.X, local.Y, local.Z, id)
	w.notifyDirty(c)
	w.markBoundaryNeighboursDirty(coord, local)
}

// RaycastHit is the result of a successful World.Raycast.
type RaycastHit struct {
	Voxel    [3]int
	Previous [3]int
	Distance float32
}

// Raycast steps a ray through the voxel grid at a fixed small increment
// (step ~ 0.01 world units) and returns the first non-air cell hit, along
// with the last empty cell observed (the placement target for the caller).
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDist float32) (RaycastHit, bool) {
	const step = float32(0.01)
	steps := int(maxDist / step)

	last := [3]int{
		int(math.Floor(float64(origin.X()))),
		int(math.Floor(float64(origin.Y()))),
		int(math.Floor(float64(origin.Z()))),
	}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * step
		p := origin.Add(direction.Mul(dist))
		cur := [3]int{
			int(math.Floor(float64(p.X()))),
			int(math.Floor(float64(p.Y()))),
			int(math.Floor(float64(p.Z()))),
		}

		id := w.VoxelAt(cur[0], cur[1], cur[2])
		if !w.catalog.IsAir(id) {
			return RaycastHit{Voxel: cur, Previous: last, Distance: dist}, true
		}
		last = cur
	}
	return RaycastHit{}, false
}

// ChunksInRadius returns every currently loaded chunk whose coordinate lies
// within the inclusive square of the given radius around (cx, cz).
func (w *World) ChunksInRadius(cx, cz, radius int) []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []*Chunk
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if c, ok := w.chunks[ChunkCoord{CX: cx + dx, CZ: cz + dz}]; ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// ChunkCount returns the number of chunks currently resident in the world.
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}
