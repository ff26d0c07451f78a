package bakery

import (
	"testing"
	"time"

	"github.com/scathanna-go/scathanna/internal/voxel"
)

func TestBakeryBakesRequestedCell(t *testing.T) {
	vx := voxel.NewVoxels()
	vx.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{8, 8, 8}), voxel.Voxel(1))

	b := New(vx)
	b.RequestVAO(voxel.IVec3{0, 0, 0})

	deadline := time.After(2 * time.Second)
	for {
		if results, ok := b.TryRecv(); ok {
			if len(results) != 1 || results[0].Pos != (voxel.IVec3{0, 0, 0}) {
				t.Fatalf("unexpected results: %+v", results)
			}
			if results[0].Buffer == nil {
				t.Fatalf("expected a non-nil baked buffer")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for bakery result")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestBakeryIgnoresEmptyCellRequest(t *testing.T) {
	vx := voxel.NewVoxels()
	b := New(vx)
	b.RequestVAO(voxel.IVec3{0, 0, 0})

	// Nothing to bake: the worker should go back to idle without ever
	// sending a result. Give it a short window, then move on.
	select {
	case results := <-b.fromWorker:
		t.Fatalf("expected no results for an empty cell, got %+v", results)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBakeryUpdateCellIsPickedUpByNextBake(t *testing.T) {
	vx := voxel.NewVoxels()
	b := New(vx)

	edited := voxel.NewVoxels()
	edited.SetRange(voxel.NewCuboid(voxel.IVec3{0, 0, 0}, voxel.IVec3{8, 8, 8}), voxel.Voxel(2))
	b.UpdateCell(voxel.IVec3{0, 0, 0}, edited.CloneCell(voxel.IVec3{0, 0, 0}))
	b.RequestVAO(voxel.IVec3{0, 0, 0})

	deadline := time.After(2 * time.Second)
	for {
		if results, ok := b.TryRecv(); ok {
			if len(results) != 1 {
				t.Fatalf("expected exactly one result, got %d", len(results))
			}
			if _, present := results[0].Buffer.Faces[voxel.Voxel(2)]; !present {
				t.Fatalf("expected baked buffer to reflect the pushed edit")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for bakery result")
		case <-time.After(time.Millisecond):
		}
	}
}
