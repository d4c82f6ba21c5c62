// Package voxel implements the Chunk and World components: the chunked
// voxel store, its coordinate translation, and the world-space query/edit
// API that the generator and mesher consult for cross-border lookups.
package voxel

import (
	"sync"

	"voxelcore/internal/blocks"
)

// ChunkCoord identifies a column by its integer chunk-grid position.
type ChunkCoord struct {
	CX, CZ int
}

// LocalCoord is a voxel position relative to its owning chunk's origin.
type LocalCoord struct {
	X, Y, Z int
}

// MeshData is the opaque and transparent vertex streams produced by the
// mesher. The core treats both as opaque byte payloads handed to a
// renderer collaborator; it only owns their invalidation.
type MeshData struct {
	Opaque      []uint32
	Transparent []uint32
}

// Chunk is a fixed CW×CH×CW column of voxels plus its generation-pass
// flags and rebuilt mesh buffer. Its voxel array and mesh buffer are
// guarded by its own lock, per the core's per-chunk locking discipline.
type Chunk struct {
	Coord ChunkCoord

	cw, ch int

	mu     sync.RWMutex
	voxels []blocks.ID

	populated  bool
	carved     bool
	oreFilled  bool
	decorated  bool
	dirty      bool
	mesh       MeshData
}

// NewChunk allocates an empty, unpopulated chunk at coord.
func NewChunk(coord ChunkCoord, chunkWidth, chunkHeight int) *Chunk {
	return &Chunk{
		Coord:  coord,
		cw:     chunkWidth,
		ch:     chunkHeight,
		voxels: make([]blocks.ID, chunkWidth*chunkHeight*chunkWidth),
	}
}

func (c *Chunk) inBounds(x, y, z int) bool {
	return x >= 0 && x < c.cw && y >= 0 && y < c.ch && z >= 0 && z < c.cw
}

// index computes the flattened row-major [x][y][z] offset.
func (c *Chunk) index(x, y, z int) int {
	return x*c.ch*c.cw + y*c.cw + z
}

// GetLocal reads a voxel by local coordinate. Out-of-range coordinates
// return AIR rather than failing, per the core's OutOfBounds policy.
func (c *Chunk) GetLocal(x, y, z int) blocks.ID {
	if !c.inBounds(x, y, z) {
		return blocks.Air
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.voxels[c.index(x, y, z)]
}

// SetLocal overwrites a voxel and marks the chunk dirty. Out-of-range
// writes are silently ignored (OutOfBounds policy: edits no-op). Callers
// must ensure the chunk is populated first.
func (c *Chunk) SetLocal(x, y, z int, id blocks.ID) {
	if !c.inBounds(x, y, z) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voxels[c.index(x, y, z)] = id
	c.dirty = true
}

// Width returns the chunk's horizontal extent (CW).
func (c *Chunk) Width() int { return c.cw }

// Height returns the chunk's vertical extent (CH).
func (c *Chunk) Height() int { return c.ch }

// Populated reports whether the terrain pass has completed.
func (c *Chunk) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// Carved reports whether the cave pass has completed.
func (c *Chunk) Carved() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.carved
}

// OreFilled reports whether the ore lode pass has completed.
func (c *Chunk) OreFilled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.oreFilled
}

// Decorated reports whether the decoration (tree) pass has completed.
func (c *Chunk) Decorated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decorated
}

// Dirty reports whether the chunk has unmeshed changes.
func (c *Chunk) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// MarkDirty flags the chunk for remeshing. Used by World after a chunk's
// terrain pass and on the boundary neighbours of an edit; writes into the
// chunk itself mark it dirty through SetLocal.
func (c *Chunk) MarkDirty() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}

// MarkPopulated, MarkCarved, MarkOreFilled and MarkDecorated advance the
// chunk's pass flags. World alone calls these, immediately after running
// the corresponding Generator pass, preserving the monotone flag order
// populated -> (carved, oreFilled, decorated).
func (c *Chunk) MarkPopulated() {
	c.mu.Lock()
	c.populated = true
	c.mu.Unlock()
}

func (c *Chunk) MarkCarved() {
	c.mu.Lock()
	c.carved = true
	c.mu.Unlock()
}

func (c *Chunk) MarkOreFilled() {
	c.mu.Lock()
	c.oreFilled = true
	c.mu.Unlock()
}

func (c *Chunk) MarkDecorated() {
	c.mu.Lock()
	c.decorated = true
	c.mu.Unlock()
}

// SetMeshData installs a freshly built mesh and clears dirty. Called by the
// streaming manager after meshing.BuildChunkMesh succeeds.
func (c *Chunk) SetMeshData(data MeshData) {
	c.mu.Lock()
	c.mesh = data
	c.dirty = false
	c.mu.Unlock()
}

// DrawCall returns the renderer-facing artifact: the chunk's model
// transform origin and its two vertex streams. The core treats the
// returned slices as opaque; only it owns their lifetime.
type DrawCall struct {
	OriginX, OriginY, OriginZ int
	Opaque                    []uint32
	Transparent               []uint32
}

// DrawCall builds the renderer hand-off for this chunk's current mesh.
func (c *Chunk) DrawCall() DrawCall {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return DrawCall{
		OriginX:     c.Coord.CX * c.cw,
		OriginY:     0,
		OriginZ:     c.Coord.CZ * c.cw,
		Opaque:      c.mesh.Opaque,
		Transparent: c.mesh.Transparent,
	}
}
