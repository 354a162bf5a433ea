package board

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/hexboard/pkg/errors"
)

func newTestSyncer(t *testing.T) (*Syncer, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	s := NewSyncer(store, nil)
	if _, err := s.EnsureRoot(context.Background(), "ws", "root"); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	return s, store
}

func TestApplyPageChangeCreates(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)

	a, b := hex("a"), hex("b")
	change := PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"a": a, "b": b},
		Bindings:    map[string]*Binding{"link": {ID: "link", FromID: "a", ToID: "b"}},
	}
	res, err := s.ApplyPageChange(ctx, change)
	if err != nil {
		t.Fatalf("ApplyPageChange: %v", err)
	}
	if res.Created != 2 || res.Updated != 0 || res.Deleted != 0 {
		t.Errorf("result = %+v, want 2 created", res)
	}
	if store.Len("ws") != 3 {
		t.Errorf("store holds %d blocks, want 3", store.Len("ws"))
	}

	blockA, blockB := res.BlockIDs["a"], res.BlockIDs["b"]
	if blockA == "" || blockB == "" || blockA == blockB {
		t.Fatalf("BlockIDs = %v", res.BlockIDs)
	}
	link := res.Bindings["link"]
	if link.FromID != blockA || link.ToID != blockB {
		t.Errorf("binding = %+v, want remapped to %s -> %s", link, blockA, blockB)
	}

	// The caller's values are left alone.
	if a.AffineID != "" || change.Bindings["link"].FromID != "a" {
		t.Error("ApplyPageChange must not modify its input")
	}

	blocks, _ := store.Get(ctx, "ws", []string{blockA})
	raw, ok := blocks[0].Property(PropShape)
	if !ok {
		t.Fatal("shape block has no shapeProps")
	}
	var stored Shape
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode shapeProps: %v", err)
	}
	if stored.AffineID != blockA || stored.ID != "a" {
		t.Errorf("stored shape = %+v", stored)
	}
	if blocks[0].Type != BlockShape || blocks[0].ParentID != "root" {
		t.Errorf("block = %+v", blocks[0])
	}
}

func TestApplyPageChangeUpdatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)

	first, err := s.ApplyPageChange(ctx, PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"a": hex("a"), "b": hex("b")},
		Bindings: map[string]*Binding{
			"keep": {ID: "keep", FromID: "a", ToID: "b"},
			"drop": {ID: "drop", FromID: "b", ToID: "a"},
		},
	})
	if err != nil {
		t.Fatalf("first change: %v", err)
	}

	moved := hex("a")
	moved.AffineID = first.BlockIDs["a"]
	moved.Rotation = 1.5
	res, err := s.ApplyPageChange(ctx, PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"a": moved, "b": nil},
		Bindings:    map[string]*Binding{"drop": nil},
	})
	if err != nil {
		t.Fatalf("second change: %v", err)
	}
	if res.Updated != 1 || res.Deleted != 1 || res.Created != 0 {
		t.Errorf("result = %+v, want 1 updated and 1 deleted", res)
	}
	if store.Len("ws") != 2 {
		t.Errorf("store holds %d blocks, want 2", store.Len("ws"))
	}
	if _, ok := res.Bindings["drop"]; ok {
		t.Error("nil binding should be removed")
	}
	if _, ok := res.Bindings["keep"]; !ok {
		t.Error("untouched binding should survive the merge")
	}

	page, err := s.LoadPage(ctx, "ws", "root")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if len(page.Shapes) != 1 {
		t.Fatalf("page has %d shapes, want 1", len(page.Shapes))
	}
	got := page.Shapes["a"]
	if got.Rotation != 1.5 || got.AffineID != first.BlockIDs["a"] {
		t.Errorf("loaded shape = %+v", got)
	}
	if len(page.Bindings) != 1 {
		t.Errorf("loaded bindings = %v", page.Bindings)
	}
}

func TestApplyPageChangeEditorShape(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)

	ed := &Shape{ID: "e", Type: ShapeEditor}
	res, err := s.ApplyPageChange(ctx, PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"e": ed},
	})
	if err != nil {
		t.Fatalf("ApplyPageChange: %v", err)
	}
	blocks, _ := store.Get(ctx, "ws", []string{res.BlockIDs["e"]})
	if len(blocks) != 1 || blocks[0].Type != BlockGroup {
		t.Errorf("editor shape block = %+v, want a group block", blocks)
	}
}

func TestApplyPageChangeErrors(t *testing.T) {
	ctx := context.Background()
	s := NewSyncer(NewMemoryStore(), nil)

	tests := []struct {
		name   string
		change PageChange
		code   errors.Code
	}{
		{"no workspace", PageChange{RootBlockID: "root"}, errors.ErrCodeInvalidInput},
		{"no root id", PageChange{Workspace: "ws"}, errors.ErrCodeInvalidInput},
		{"missing root block", PageChange{Workspace: "ws", RootBlockID: "root"}, errors.ErrCodeBlockNotFound},
		{
			"invalid shape",
			PageChange{Workspace: "ws", RootBlockID: "root", Shapes: map[string]*Shape{"x": {ID: "x"}}},
			errors.ErrCodeInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ApplyPageChange(ctx, tt.change)
			if !errors.Is(err, tt.code) {
				t.Errorf("ApplyPageChange() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadPageMissingRoot(t *testing.T) {
	s := NewSyncer(NewMemoryStore(), nil)
	_, err := s.LoadPage(context.Background(), "ws", "nope")
	if !errors.Is(err, errors.ErrCodeBlockNotFound) {
		t.Errorf("LoadPage() error = %v, want BLOCK_NOT_FOUND", err)
	}
}

func TestEnsureRootIdempotent(t *testing.T) {
	s, store := newTestSyncer(t)
	if _, err := s.EnsureRoot(context.Background(), "ws", "root"); err != nil {
		t.Fatalf("EnsureRoot: %v", err)
	}
	if store.Len("ws") != 1 {
		t.Errorf("store holds %d blocks, want 1", store.Len("ws"))
	}
}

func TestApplyPageChangeShapesReload(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)

	var change PageChange
	body := `{"workspace":"ws","rootBlockId":"root","currentPageId":"page2",
		"shapes":{"a":{"id":"a","type":"hexagon","point":[0,0],"size":[100,50],"style":{"color":"black","size":"small","dash":"draw"}}}}`
	if err := json.Unmarshal([]byte(body), &change); err != nil {
		t.Fatalf("decode change: %v", err)
	}
	res, err := s.ApplyPageChange(ctx, change)
	if err != nil {
		t.Fatalf("ApplyPageChange: %v", err)
	}

	page, err := s.LoadPage(ctx, "ws", "root")
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if got := page.Shapes["a"]; got == nil || got.AffineID != res.BlockIDs["a"] {
		t.Fatalf("LoadPage() shapes = %v, want shape a in block %s", page.Shapes, res.BlockIDs["a"])
	}

	res, err = s.ApplyPageChange(ctx, PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"a": nil},
	})
	if err != nil {
		t.Fatalf("delete change: %v", err)
	}
	if res.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", res.Deleted)
	}
	if store.Len("ws") != 1 {
		t.Errorf("store holds %d blocks, want only the root", store.Len("ws"))
	}
}

func TestApplyPageChangeDeleteCounts(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSyncer(t)

	first, err := s.ApplyPageChange(ctx, PageChange{
		Workspace:   "ws",
		RootBlockID: "root",
		Shapes:      map[string]*Shape{"a": hex("a"), "b": hex("b")},
	})
	if err != nil {
		t.Fatalf("first change: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		deleted int
		blocks  int
	}{
		{"unknown shape", "ghost", 0, 3},
		{"root block", "root", 0, 3},
		{"by block id", first.BlockIDs["b"], 1, 2},
		{"by canvas id", "a", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ApplyPageChange(ctx, PageChange{
				Workspace:   "ws",
				RootBlockID: "root",
				Shapes:      map[string]*Shape{tt.key: nil},
			})
			if err != nil {
				t.Fatalf("ApplyPageChange: %v", err)
			}
			if res.Deleted != tt.deleted {
				t.Errorf("Deleted = %d, want %d", res.Deleted, tt.deleted)
			}
			if store.Len("ws") != tt.blocks {
				t.Errorf("store holds %d blocks, want %d", store.Len("ws"), tt.blocks)
			}
		})
	}
}
