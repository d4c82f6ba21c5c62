package voxel

import (
	"testing"

	"voxelcore/internal/blocks"
)

func TestNewChunkIsAllAir(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	if id := c.GetLocal(0, 0, 0); id != blocks.Air {
		t.Errorf("expected fresh chunk to be Air at origin, got %d", id)
	}
	if id := c.GetLocal(15, 31, 15); id != blocks.Air {
		t.Errorf("expected fresh chunk to be Air at corner, got %d", id)
	}
}

func TestSetGetLocalRoundTrip(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	c.SetLocal(3, 5, 7, blocks.Stone)
	if id := c.GetLocal(3, 5, 7); id != blocks.Stone {
		t.Errorf("expected Stone at (3,5,7), got %d", id)
	}
}

func TestGetLocalOutOfBoundsReturnsAir(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	c.SetLocal(0, 0, 0, blocks.Stone)
	if id := c.GetLocal(-1, 0, 0); id != blocks.Air {
		t.Errorf("expected out-of-bounds read to return Air, got %d", id)
	}
	if id := c.GetLocal(16, 0, 0); id != blocks.Air {
		t.Errorf("expected out-of-bounds read to return Air, got %d", id)
	}
}

func TestSetLocalOutOfBoundsNoOp(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	c.SetLocal(-1, 0, 0, blocks.Stone)
	c.SetLocal(100, 100, 100, blocks.Stone)
	if c.Dirty() {
		t.Errorf("expected an out-of-bounds write to not mark the chunk dirty")
	}
}

func TestMarkDirtyAndSetMeshDataClearsIt(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	c.MarkDirty()
	if !c.Dirty() {
		t.Fatalf("expected chunk to be dirty after MarkDirty")
	}
	c.SetMeshData(MeshData{Opaque: []uint32{1, 2}})
	if c.Dirty() {
		t.Errorf("expected SetMeshData to clear dirty")
	}
}

func TestPassFlagsStartFalse(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16, 32)
	if c.Populated() || c.Carved() || c.OreFilled() || c.Decorated() {
		t.Errorf("expected a fresh chunk to have no pass flags set")
	}
	c.MarkPopulated()
	c.MarkCarved()
	c.MarkOreFilled()
	c.MarkDecorated()
	if !(c.Populated() && c.Carved() && c.OreFilled() && c.Decorated()) {
		t.Errorf("expected all pass flags set after marking each")
	}
}

func TestDrawCallOrigin(t *testing.T) {
	c := NewChunk(ChunkCoord{CX: 2, CZ: -1}, 16, 32)
	dc := c.DrawCall()
	if dc.OriginX != 32 || dc.OriginZ != -16 {
		t.Errorf("expected origin (32, *, -16), got (%d, %d, %d)", dc.OriginX, dc.OriginY, dc.OriginZ)
	}
}
