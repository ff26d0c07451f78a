// Package bakery runs lightmap baking on a dedicated goroutine so that
// editing and gameplay never block on it. The bakery owns its own copy of
// the voxel world; edits are pushed to it explicitly via UpdateCell.
package bakery

import (
	"context"
	"log"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/scathanna-go/scathanna/internal/bake"
	"github.com/scathanna-go/scathanna/internal/voxel"
)

// CellResult is a freshly baked cell, ready to hand to a renderer.
type CellResult struct {
	Pos    voxel.IVec3
	Buffer *bake.CellBuffer
}

// SaveLightmap persists a full-bake result's lightmap image, keyed by cell
// position; the caller supplies this so bakery never needs to know about
// the on-disk map format.
type SaveLightmap func(pos voxel.IVec3, cell *bake.CellBuffer) error

type request interface{ isRequest() }

type updateCellReq struct {
	pos  voxel.IVec3
	cell voxel.Node
}
type requestVAOReq struct{ pos voxel.IVec3 }
type requestLightmapReq struct{ pos voxel.IVec3 }
type requestFullBakeReq struct {
	center voxel.IVec3
	save   SaveLightmap
}

func (updateCellReq) isRequest()       {}
func (requestVAOReq) isRequest()       {}
func (requestLightmapReq) isRequest()  {}
func (requestFullBakeReq) isRequest()  {}

// Bakery is a handle to the background baking worker.
type Bakery struct {
	toWorker   chan request
	fromWorker chan []CellResult
}

// New starts the worker goroutine with its own snapshot of vx's current
// cells. Edits made to vx afterwards are invisible to the worker until
// pushed through UpdateCell.
func New(vx *voxel.Voxels) *Bakery {
	w := &worker{
		voxels:           voxel.NewVoxels(),
		vaoBacklog:       map[voxel.IVec3]bool{},
		lightmapBacklog:  map[voxel.IVec3]bool{},
		fromCtrl:         make(chan request, 256),
		toCtrl:           make(chan []CellResult, 256),
	}
	for _, origin := range vx.CellOrigins() {
		w.voxels.SetCellRoot(origin, vx.CloneCell(origin))
	}
	go w.serveLoop()
	return &Bakery{toWorker: w.fromCtrl, fromWorker: w.toCtrl}
}

func (b *Bakery) UpdateCell(pos voxel.IVec3, cell voxel.Node) {
	b.toWorker <- updateCellReq{pos, cell}
}

func (b *Bakery) RequestVAO(pos voxel.IVec3) {
	b.toWorker <- requestVAOReq{pos}
}

func (b *Bakery) RequestLightmap(pos voxel.IVec3) {
	b.toWorker <- requestLightmapReq{pos}
}

// RequestFullBake triggers a high-quality bake of every cell, nearest to
// center first, saving each via save as it completes.
func (b *Bakery) RequestFullBake(center voxel.IVec3, save SaveLightmap) {
	b.toWorker <- requestFullBakeReq{center, save}
}

// TryRecv returns freshly baked cells without blocking, or ok=false if none
// are ready yet.
func (b *Bakery) TryRecv() (results []CellResult, ok bool) {
	select {
	case results = <-b.fromWorker:
		return results, true
	default:
		return nil, false
	}
}

type worker struct {
	voxels          *voxel.Voxels
	vaoBacklog      map[voxel.IVec3]bool
	lightmapBacklog map[voxel.IVec3]bool
	fromCtrl        chan request
	toCtrl          chan []CellResult
}

func (w *worker) serveLoop() {
	for {
		w.waitAndDrain()
		for !w.backlogEmpty() {
			w.bakeOneFast()
			w.drainNonBlocking()
		}
	}
}

func (w *worker) waitAndDrain() {
	w.handle(<-w.fromCtrl)
	w.drainNonBlocking()
}

func (w *worker) drainNonBlocking() {
	for {
		select {
		case req := <-w.fromCtrl:
			w.handle(req)
		default:
			return
		}
	}
}

func (w *worker) handle(req request) {
	switch r := req.(type) {
	case updateCellReq:
		w.voxels.SetCellRoot(r.pos, r.cell)
	case requestVAOReq:
		w.vaoBacklog[r.pos] = true
	case requestLightmapReq:
		w.lightmapBacklog[r.pos] = true
	case requestFullBakeReq:
		w.fullBake(r.center, r.save)
	}
}

func (w *worker) backlogEmpty() bool {
	return len(w.vaoBacklog) == 0 && len(w.lightmapBacklog) == 0
}

// bakeOneFast drains the entire VAO backlog as one batch — those cells
// share visible boundaries and must go out together to avoid seams — or,
// failing that, pops a single cell off the lower-priority lightmap backlog.
func (w *worker) bakeOneFast() {
	if len(w.vaoBacklog) > 0 {
		var results []CellResult
		for pos := range w.vaoBacklog {
			if buf, ok := bake.BakeCellBuffer(w.voxels, pos, false); ok {
				results = append(results, CellResult{pos, buf})
			}
		}
		w.vaoBacklog = map[voxel.IVec3]bool{}
		if len(results) > 0 {
			w.toCtrl <- results
		}
		return
	}
	for pos := range w.lightmapBacklog {
		delete(w.lightmapBacklog, pos)
		if buf, ok := bake.BakeCellBuffer(w.voxels, pos, false); ok {
			w.toCtrl <- []CellResult{{pos, buf}}
		}
		return
	}
}

// fullBake traces every cell at high quality, nearest to center first, and
// streams each result back (and to save) as soon as it's ready.
func (w *worker) fullBake(center voxel.IVec3, save SaveLightmap) {
	cells := w.voxels.CellOrigins()
	sort.Slice(cells, func(i, j int) bool {
		return distSq(cells[i], center) < distSq(cells[j], center)
	})

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pos := range cells {
		pos := pos
		g.Go(func() error {
			buf, ok := bake.BakeCellBuffer(w.voxels, pos, true)
			if !ok {
				return nil
			}
			if save != nil {
				if err := save(pos, buf); err != nil {
					log.Printf("bakery: saving cell %v: %v", pos, err)
				}
			}
			w.toCtrl <- []CellResult{{pos, buf}}
			return nil
		})
	}
	_ = g.Wait()
}

func distSq(a, b voxel.IVec3) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	dz := int64(a.Z - b.Z)
	return dx*dx + dy*dy + dz*dz
}
