// Package streaming implements the StreamingManager: the per-tick
// population/mesh scheduler that keeps a ring of chunks around an observer
// generated and meshed within a fixed per-tick budget.
package streaming

import (
	"sync"

	"voxelcore/internal/profiling"
	"voxelcore/internal/voxel"
)

// MeshFunc builds a chunk's vertex streams against the world. Satisfied by
// meshing.BuildChunkMesh; kept as a function value here so streaming never
// imports meshing, avoiding a needless hard dependency on the mesher's
// internals.
type MeshFunc func(w *voxel.World, c *voxel.Chunk) voxel.MeshData

type meshJob struct {
	chunk *voxel.Chunk
}

type meshResult struct {
	chunk *voxel.Chunk
	data  voxel.MeshData
}

// Manager drives chunk population and meshing around a moving observer. Two
// radii define the active zone: render radius (meshed) and render radius+1
// (populated margin), so meshing never observes an unpopulated neighbour
// when face-culling against a chunk boundary.
type Manager struct {
	world *voxel.World
	mesh  MeshFunc
	budget int

	mu         sync.Mutex
	lastCoord  voxel.ChunkCoord
	lastRadius int
	primed     bool
	pending    []*voxel.Chunk
	pendingSet map[voxel.ChunkCoord]struct{}

	jobs    chan meshJob
	results chan meshResult
	wg      sync.WaitGroup
}

// New builds a Manager with a fixed-size mesh worker pool. budget caps how
// many chunks are meshed per Tick call (config.Config.MeshBudgetPerTick).
func New(w *voxel.World, mesh MeshFunc, workers, budget int) *Manager {
	if workers < 1 {
		workers = 1
	}
	m := &Manager{
		world:      w,
		mesh:       mesh,
		budget:     budget,
		pendingSet: make(map[voxel.ChunkCoord]struct{}),
		jobs:       make(chan meshJob, 256),
		results:    make(chan meshResult, 256),
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	w.OnDirty(m.EnqueueDirty)
	return m
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for job := range m.jobs {
		data := m.mesh(m.world, job.chunk)
		m.results <- meshResult{chunk: job.chunk, data: data}
	}
}

// Close shuts down the mesh worker pool. The Manager must not be ticked again.
func (m *Manager) Close() {
	close(m.jobs)
	m.wg.Wait()
}

// Tick advances the manager by one step: it ensures the populated margin
// around the observer, runs the generation passes over it, enqueues newly
// dirty chunks within the render radius, and meshes up to budget of them.
// Idempotent: calling it again with an unchanged observer and radius only
// drains the pending queue.
func (m *Manager) Tick(observerWX, observerWZ float64, radius int) {
	defer profiling.Track("streaming.Manager.Tick")()

	coord := m.world.ChunkCoordFor(int(observerWX), int(observerWZ))

	m.mu.Lock()
	moved := !m.primed || coord != m.lastCoord || radius != m.lastRadius
	m.lastCoord = coord
	m.lastRadius = radius
	m.primed = true
	m.mu.Unlock()

	if moved {
		m.fullScan(coord, radius)
	}
	m.drainBudget()
}

// fullScan runs the populate+generate+enqueue steps of one tick, per
// spec.md §4.6 steps 2-4.
func (m *Manager) fullScan(coord voxel.ChunkCoord, radius int) {
	defer profiling.Track("streaming.Manager.fullScan")()

	margin := radius + 1
	for dx := -margin; dx <= margin; dx++ {
		for dz := -margin; dz <= margin; dz++ {
			c := m.world.EnsureChunk(coord.CX+dx, coord.CZ+dz)
			m.world.RunGenerationPasses(c)
		}
	}

	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			c, ok := m.world.GetChunk(voxel.ChunkCoord{CX: coord.CX + dx, CZ: coord.CZ + dz})
			if !ok || !c.Dirty() {
				continue
			}
			m.enqueue(c)
		}
	}
}

// enqueue adds c to the pending mesh queue if it isn't already there.
func (m *Manager) enqueue(c *voxel.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pendingSet[c.Coord]; ok {
		return
	}
	m.pendingSet[c.Coord] = struct{}{}
	m.pending = append(m.pending, c)
}

// drainBudget pops up to the configured budget of pending chunks, dispatches
// them to the mesh worker pool, and installs their results before returning
// — mesh upload to a renderer is the caller's concern, applied on whatever
// thread reads Chunk.DrawCall next.
func (m *Manager) drainBudget() {
	defer profiling.Track("streaming.Manager.drainBudget")()

	batch := m.popBudget()
	if len(batch) == 0 {
		return
	}
	for _, c := range batch {
		m.jobs <- meshJob{chunk: c}
	}
	for range batch {
		res := <-m.results
		res.chunk.SetMeshData(res.data)
	}
}

func (m *Manager) popBudget() []*voxel.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.budget
	if n > len(m.pending) {
		n = len(m.pending)
	}
	if n <= 0 {
		return nil
	}
	batch := make([]*voxel.Chunk, n)
	copy(batch, m.pending[:n])
	m.pending = m.pending[n:]
	for _, c := range batch {
		delete(m.pendingSet, c.Coord)
	}
	return batch
}

// EnqueueDirty enqueues c directly, bypassing the next full scan. Registered
// with the World as its dirty listener in New, so a single SetVoxel edit is
// reflected without waiting for the observer to move.
func (m *Manager) EnqueueDirty(c *voxel.Chunk) {
	if !c.Dirty() {
		return
	}
	m.enqueue(c)
}

// PendingCount reports how many chunks are currently queued for meshing.
func (m *Manager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
