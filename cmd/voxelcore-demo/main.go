// Command voxelcore-demo wires the core components together and runs a
// handful of streaming ticks around a stationary observer, logging
// per-tick diagnostics. It has no renderer, no window and no input: those
// are external collaborators left to whatever embeds this core.
package main

import (
	"flag"
	"log"

	"voxelcore/internal/blocks"
	"voxelcore/internal/config"
	"voxelcore/internal/generator"
	"voxelcore/internal/meshing"
	"voxelcore/internal/noise"
	"voxelcore/internal/streaming"
	"voxelcore/internal/voxel"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overriding the defaults")
	ticks := flag.Int("ticks", 5, "number of streaming ticks to run")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	catalog := blocks.Default()
	noiseSvc := noise.NewService(cfg.Seed)
	gen := generator.New(cfg, catalog, noiseSvc)
	world := voxel.New(cfg, catalog, gen)

	manager := streaming.New(world, meshing.BuildChunkMesh, 4, cfg.MeshBudgetPerTick)
	defer manager.Close()

	for i := 0; i < *ticks; i++ {
		manager.Tick(0, 0, cfg.RenderDistance)
		log.Printf("tick %d: %d chunks resident, %d pending mesh", i, world.ChunkCount(), manager.PendingCount())
	}
}
