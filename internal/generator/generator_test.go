package generator

import (
	"crypto/sha256"
	"testing"

	"voxelcore/internal/blocks"
	"voxelcore/internal/config"
	"voxelcore/internal/noise"
	"voxelcore/internal/voxel"
)

func newTestGenerator(seed int64) (*Generator, *blocks.Catalog, config.Config) {
	cfg := config.Default()
	cfg.Seed = seed
	catalog := blocks.Default()
	n := noise.NewService(seed)
	return New(cfg, catalog, n), catalog, cfg
}

func hashChunk(c *voxel.Chunk) [32]byte {
	h := sha256.New()
	for x := 0; x < c.Width(); x++ {
		for y := 0; y < c.Height(); y++ {
			for z := 0; z < c.Width(); z++ {
				h.Write([]byte{byte(c.GetLocal(x, y, z))})
			}
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestGeneratorImplementsVoxelInterface(t *testing.T) {
	g, _, _ := newTestGenerator(1)
	var _ voxel.Generator = g
}

func TestTerrainBedrockFloor(t *testing.T) {
	g, _, cfg := newTestGenerator(7)
	c := voxel.NewChunk(voxel.ChunkCoord{}, cfg.ChunkWidth, cfg.ChunkHeight)
	g.Terrain(c)

	if id := c.GetLocal(0, 0, 0); id != blocks.Bedrock {
		t.Errorf("expected Bedrock at y=0, got %d", id)
	}
}

func TestTerrainProducesAirAboveSurface(t *testing.T) {
	g, _, cfg := newTestGenerator(7)
	c := voxel.NewChunk(voxel.ChunkCoord{}, cfg.ChunkWidth, cfg.ChunkHeight)
	g.Terrain(c)

	if id := c.GetLocal(0, cfg.ChunkHeight-1, 0); id != blocks.Air {
		t.Errorf("expected Air at the very top of a fresh column, got %d", id)
	}
}

func TestTerrainDeterministic(t *testing.T) {
	seed := int64(12345)
	var hashes [20][32]byte
	for i := range hashes {
		g, _, cfg := newTestGenerator(seed)
		c := voxel.NewChunk(voxel.ChunkCoord{CX: 3, CZ: -2}, cfg.ChunkWidth, cfg.ChunkHeight)
		g.Terrain(c)
		hashes[i] = hashChunk(c)
	}
	for i := 1; i < len(hashes); i++ {
		if hashes[i] != hashes[0] {
			t.Errorf("terrain generation not deterministic: hash[0] != hash[%d]", i)
		}
	}
}

func TestOreFillOnlyReplacesStone(t *testing.T) {
	g, catalog, cfg := newTestGenerator(99)
	c := voxel.NewChunk(voxel.ChunkCoord{}, cfg.ChunkWidth, cfg.ChunkHeight)

	for x := 0; x < cfg.ChunkWidth; x++ {
		for z := 0; z < cfg.ChunkWidth; z++ {
			for y := 0; y < cfg.ChunkHeight; y++ {
				c.SetLocal(x, y, z, blocks.Dirt)
			}
		}
	}

	g.OreFill(c)

	for x := 0; x < cfg.ChunkWidth; x++ {
		for z := 0; z < cfg.ChunkWidth; z++ {
			for y := 0; y < cfg.ChunkHeight; y++ {
				if id := c.GetLocal(x, y, z); id != blocks.Dirt {
					t.Fatalf("OreFill replaced a non-stone cell at (%d,%d,%d) with %d", x, y, z, id)
				}
			}
		}
	}
	_ = catalog
}

func TestCarveNeverTouchesBedrock(t *testing.T) {
	g, _, cfg := newTestGenerator(55)
	c := voxel.NewChunk(voxel.ChunkCoord{}, cfg.ChunkWidth, cfg.ChunkHeight)
	g.Terrain(c)
	g.Carve(c)

	for x := 0; x < cfg.ChunkWidth; x++ {
		for z := 0; z < cfg.ChunkWidth; z++ {
			if id := c.GetLocal(x, 0, z); id != blocks.Bedrock {
				t.Fatalf("expected bedrock preserved at y=0 (%d,%d), got %d", x, z, id)
			}
		}
	}
}

func TestTreeHeightDeterministicAcrossGenerationOrder(t *testing.T) {
	h1 := treeHeight(42, 100, 200, 4, 7)
	h2 := treeHeight(42, 100, 200, 4, 7)
	if h1 != h2 {
		t.Errorf("expected treeHeight to be pure, got %d and %d", h1, h2)
	}
	if h1 < 4 || h1 >= 7 {
		t.Errorf("expected treeHeight in [4,7), got %d", h1)
	}
}

func TestTreeHeightVariesByColumn(t *testing.T) {
	seen := map[int]bool{}
	for wx := 0; wx < 50; wx++ {
		h := treeHeight(1, wx, 0, 4, 10)
		seen[h] = true
	}
	if len(seen) < 2 {
		t.Errorf("expected tree heights to vary across columns, got only %v", seen)
	}
}

func TestDecorateTrunkStaysInChunk(t *testing.T) {
	g, _, cfg := newTestGenerator(3)
	c := voxel.NewChunk(voxel.ChunkCoord{}, cfg.ChunkWidth, cfg.ChunkHeight)

	surfaceY := 10
	for x := 0; x < cfg.ChunkWidth; x++ {
		for z := 0; z < cfg.ChunkWidth; z++ {
			for y := 0; y <= surfaceY; y++ {
				c.SetLocal(x, y, z, blocks.Dirt)
			}
			c.SetLocal(x, surfaceY, z, blocks.Grass)
		}
	}

	writes := g.Decorate(c)

	logID, _ := func() (blocks.ID, bool) {
		cat := blocks.Default()
		return cat.Lookup("log_oak")
	}()

	foundLog := false
	for x := 0; x < cfg.ChunkWidth; x++ {
		for z := 0; z < cfg.ChunkWidth; z++ {
			for y := surfaceY + 1; y < cfg.ChunkHeight; y++ {
				if c.GetLocal(x, y, z) == logID {
					foundLog = true
				}
			}
		}
	}

	for _, wr := range writes {
		if wr.ID == logID {
			t.Errorf("expected no trunk block outside the chunk, got an external log write at (%d,%d,%d)", wr.WX, wr.WY, wr.WZ)
		}
	}
	if !foundLog {
		t.Skip("no tree placed for this seed/grid; placement is noise-gated")
	}
}
