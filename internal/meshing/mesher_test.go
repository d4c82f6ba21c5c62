package meshing

import (
	"testing"

	"voxelcore/internal/blocks"
	"voxelcore/internal/config"
	"voxelcore/internal/voxel"
)

type stubGenerator struct{}

func (stubGenerator) Terrain(c *voxel.Chunk)                   {}
func (stubGenerator) Carve(c *voxel.Chunk)                     {}
func (stubGenerator) OreFill(c *voxel.Chunk)                   {}
func (stubGenerator) Decorate(c *voxel.Chunk) []voxel.ExternalWrite { return nil }

func newTestWorld(cw, ch int) *voxel.World {
	cfg := config.Default()
	cfg.ChunkWidth = cw
	cfg.ChunkHeight = ch
	return voxel.New(cfg, blocks.Default(), stubGenerator{})
}

func TestBuildChunkMeshEmptyChunkProducesNothing(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	data := BuildChunkMesh(w, c)
	if len(data.Opaque) != 0 || len(data.Transparent) != 0 {
		t.Errorf("expected an all-air chunk to produce no geometry, got %d opaque / %d transparent words",
			len(data.Opaque), len(data.Transparent))
	}
}

func TestBuildChunkMeshSingleBlockSixFaces(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	c.SetLocal(1, 1, 1, blocks.Stone)

	data := BuildChunkMesh(w, c)

	quads := len(data.Opaque) / (VertexStride * 6)
	if quads != 6 {
		t.Errorf("expected 6 quads (one per face) for an isolated block, got %d", quads)
	}
	if len(data.Transparent) != 0 {
		t.Errorf("expected no transparent geometry for an opaque block, got %d words", len(data.Transparent))
	}
}

func TestBuildChunkMeshCullsSharedFaceBetweenTwoStoneBlocks(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	c.SetLocal(1, 1, 1, blocks.Stone)
	c.SetLocal(1, 1, 2, blocks.Stone)

	data := BuildChunkMesh(w, c)

	quads := len(data.Opaque) / (VertexStride * 6)
	// 12 faces minus the 2 shared ones leaves 10; the 4 face pairs in the
	// ±X and ±Y directions are coplanar and greedy-merge, leaving 6 quads.
	if quads != 6 {
		t.Errorf("expected 6 quads for two adjacent stone blocks (10 exposed faces, 4 coplanar pairs merged), got %d", quads)
	}
}

func TestBuildChunkMeshDoesNotCullAcrossDifferentTransparentBlocks(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	c.SetLocal(1, 1, 1, blocks.Water)
	c.SetLocal(1, 1, 2, blocks.Leaves)

	data := BuildChunkMesh(w, c)

	quads := len(data.Transparent) / (VertexStride * 6)
	if quads != 12 {
		t.Errorf("expected no culling between two different transparent blocks (12 faces), got %d", quads)
	}
}

func TestBuildChunkMeshCullsBetweenIdenticalTransparentNeighbours(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	c.SetLocal(1, 1, 1, blocks.Leaves)
	c.SetLocal(1, 1, 2, blocks.Leaves)

	data := BuildChunkMesh(w, c)

	quads := len(data.Transparent) / (VertexStride * 6)
	// 10 exposed faces, with the ±X and ±Y pairs greedy-merged: 6 quads.
	if quads != 6 {
		t.Errorf("expected identical transparent neighbours to cull their shared face, got %d quads", quads)
	}
}

func TestBuildChunkMeshCullsBetweenIdenticalNonSolidTransparentNeighbours(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	c.SetLocal(1, 1, 1, blocks.Water)
	c.SetLocal(1, 1, 2, blocks.Water)

	data := BuildChunkMesh(w, c)

	quads := len(data.Transparent) / (VertexStride * 6)
	// 10 exposed faces, with the ±X and ±Y pairs greedy-merged: 6 quads.
	if quads != 6 {
		t.Errorf("expected two adjacent water cells (transparent, not solid) to cull their shared face, got %d quads", quads)
	}
}

func TestBuildChunkMeshGreedyMergesFlatFloor(t *testing.T) {
	w := newTestWorld(4, 8)
	c := w.EnsureChunk(0, 0)
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			c.SetLocal(x, 0, z, blocks.Stone)
		}
	}

	data := BuildChunkMesh(w, c)

	// Only the top face of the 4x4 stone slab is exposed upward (its bottom,
	// at world y=0, is the chunk's vertical boundary and stays unculled too,
	// since IsSolidAt treats vertical out-of-range as not solid); both
	// should greedy-merge into a single quad each rather than 16 unit quads.
	quads := len(data.Opaque) / (VertexStride * 6)
	if quads > 6 {
		t.Errorf("expected greedy merging to collapse the 4x4 slab's top/bottom into few quads, got %d", quads)
	}
}
