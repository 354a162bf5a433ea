package board

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/observability"
)

// DefaultConcurrency is the number of shapes synced in parallel.
const DefaultConcurrency = 8

// PageChange is a batch of canvas edits. A nil shape or binding marks a
// deletion. Shape blocks live directly under the root block.
type PageChange struct {
	Workspace   string              `json:"workspace"`
	RootBlockID string              `json:"rootBlockId"`
	Shapes      map[string]*Shape   `json:"shapes"`
	Bindings    map[string]*Binding `json:"bindings"`
}

// SyncResult reports what ApplyPageChange did.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	// BlockIDs maps canvas shape ids to their block ids.
	BlockIDs map[string]string `json:"blockIds"`
	// Bindings is the page binding set after the merge.
	Bindings map[string]*Binding `json:"bindings"`
}

// Syncer writes page changes to a BlockStore and reads pages back.
type Syncer struct {
	store       BlockStore
	logger      *log.Logger
	concurrency int
}

// NewSyncer returns a Syncer over store. A nil logger discards output.
func NewSyncer(store BlockStore, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Syncer{store: store, logger: logger, concurrency: DefaultConcurrency}
}

// Store returns the underlying block store.
func (s *Syncer) Store() BlockStore { return s.store }

// EnsureRoot returns the page block rootID, creating it if needed.
func (s *Syncer) EnsureRoot(ctx context.Context, workspace, rootID string) (Block, error) {
	blocks, err := s.store.Get(ctx, workspace, []string{rootID})
	if err != nil {
		return Block{}, storeErr(err, "get root block")
	}
	if len(blocks) > 0 {
		return blocks[0], nil
	}
	b, err := s.store.Create(ctx, CreateRequest{ID: rootID, Workspace: workspace, Type: BlockPage})
	if err != nil {
		return Block{}, storeErr(err, "create root block")
	}
	s.logger.Debug("created root block", "workspace", workspace, "id", rootID)
	return b, nil
}

// ApplyPageChange writes ch to the store.
//
// Every changed shape is handled concurrently. A nil shape deletes its block.
// Any other shape is matched to its block by AffineID, or gets a new block
// under the root block; bindings that point at the shape's canvas id are
// remapped to the block id, and the shape JSON is stored in the block's
// shapeProps. Once all shapes are written, the changed bindings are merged
// into the root block: nil bindings are removed and the rest replace their
// stored entry. The first error aborts the remaining work.
func (s *Syncer) ApplyPageChange(ctx context.Context, ch PageChange) (res *SyncResult, err error) {
	if ch.Workspace == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "workspace is required")
	}
	if ch.RootBlockID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root block id is required")
	}
	parent := ch.RootBlockID

	start := time.Now()
	hooks := observability.Sync()
	hooks.OnSyncStart(ctx, ch.Workspace, len(ch.Shapes), len(ch.Bindings))
	defer func() { hooks.OnSyncComplete(ctx, ch.Workspace, time.Since(start), err) }()

	res = &SyncResult{BlockIDs: make(map[string]string)}
	bindings := cloneBindings(ch.Bindings)

	var index map[string]string
	if hasDeletions(ch.Shapes) {
		if index, err = s.shapeIndex(ctx, ch.Workspace, parent); err != nil {
			return nil, err
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range sortedKeys(ch.Shapes) {
		shape := ch.Shapes[id]
		g.Go(func() error {
			if shape == nil {
				return s.deleteShape(gctx, ch.Workspace, parent, id, index, res, &mu)
			}
			return s.upsertShape(gctx, ch.Workspace, parent, shape, bindings, res, &mu)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if res.Bindings, err = s.mergeBindings(ctx, ch.Workspace, ch.RootBlockID, bindings); err != nil {
		return nil, err
	}

	s.logger.Info("applied page change",
		"workspace", ch.Workspace,
		"created", res.Created,
		"updated", res.Updated,
		"deleted", res.Deleted,
		"bindings", len(res.Bindings),
		"duration", time.Since(start))
	return res, nil
}

func (s *Syncer) upsertShape(ctx context.Context, workspace, parent string, shape *Shape, bindings map[string]*Binding, res *SyncResult, mu *sync.Mutex) error {
	sh := *shape
	if err := sh.Validate(); err != nil {
		return err
	}

	var block Block
	found := false
	if sh.AffineID != "" {
		blocks, err := s.store.Get(ctx, workspace, []string{sh.AffineID})
		if err != nil {
			return storeErr(err, "get block %s", sh.AffineID)
		}
		if len(blocks) > 0 {
			block, found = blocks[0], true
		}
	}
	if !found {
		b, err := s.store.Create(ctx, CreateRequest{
			Workspace: workspace,
			ParentID:  parent,
			Type:      blockTypeFor(sh.Type),
		})
		observability.Sync().OnBlockOp(ctx, "create", b.ID, err)
		if err != nil {
			return storeErr(err, "create block for shape %s", sh.ID)
		}
		block = b
	}
	sh.AffineID = block.ID

	mu.Lock()
	for _, b := range bindings {
		if b == nil {
			continue
		}
		if b.FromID == sh.ID {
			b.FromID = block.ID
		}
		if b.ToID == sh.ID {
			b.ToID = block.ID
		}
	}
	mu.Unlock()

	props, err := json.Marshal(&sh)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode shape %s", sh.ID)
	}
	err = s.store.Update(ctx, UpdateRequest{
		Workspace:  workspace,
		ID:         block.ID,
		Properties: map[string]Property{PropShape: {Value: string(props)}},
	})
	observability.Sync().OnBlockOp(ctx, "update", block.ID, err)
	if err != nil {
		return storeErr(err, "update block %s", block.ID)
	}

	mu.Lock()
	if found {
		res.Updated++
	} else {
		res.Created++
	}
	res.BlockIDs[sh.ID] = block.ID
	mu.Unlock()

	s.logger.Debug("synced shape", "shape", sh.ID, "block", block.ID, "created", !found)
	return nil
}

// deleteShape removes the block of canvas shape id. The id is looked up in
// index first, then tried as the id of a block under parent; a shape with
// no block is skipped.
func (s *Syncer) deleteShape(ctx context.Context, workspace, parent, id string, index map[string]string, res *SyncResult, mu *sync.Mutex) error {
	blockID, ok := index[id]
	if !ok {
		blocks, err := s.store.Get(ctx, workspace, []string{id})
		if err != nil {
			return storeErr(err, "get block %s", id)
		}
		if len(blocks) == 0 || blocks[0].ParentID != parent {
			s.logger.Debug("no block to delete", "shape", id)
			return nil
		}
		blockID = id
	}
	err := s.store.Delete(ctx, workspace, blockID)
	observability.Sync().OnBlockOp(ctx, "delete", blockID, err)
	if err != nil {
		return storeErr(err, "delete block %s", blockID)
	}
	mu.Lock()
	res.Deleted++
	mu.Unlock()
	s.logger.Debug("deleted shape", "shape", id, "block", blockID)
	return nil
}

// shapeIndex maps canvas shape ids under parent to their block ids.
func (s *Syncer) shapeIndex(ctx context.Context, workspace, parent string) (map[string]string, error) {
	children, err := s.store.Children(ctx, workspace, parent)
	if err != nil {
		return nil, storeErr(err, "list blocks")
	}
	index := make(map[string]string, len(children))
	for _, b := range children {
		sh, ok := s.decodeShape(b)
		if ok {
			index[sh.ID] = b.ID
		}
	}
	return index, nil
}

func (s *Syncer) mergeBindings(ctx context.Context, workspace, rootID string, changed map[string]*Binding) (map[string]*Binding, error) {
	root, err := s.rootBlock(ctx, workspace, rootID)
	if err != nil {
		return nil, err
	}
	stored, err := decodeBindings(root)
	if err != nil {
		return nil, err
	}

	for _, key := range sortedKeys(changed) {
		if b := changed[key]; b == nil {
			delete(stored, key)
		} else {
			stored[key] = b
		}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode bindings")
	}
	err = s.store.Update(ctx, UpdateRequest{
		Workspace:  workspace,
		ID:         rootID,
		Properties: map[string]Property{PropBindings: {Value: string(data)}},
	})
	observability.Sync().OnBlockOp(ctx, "update", rootID, err)
	if err != nil {
		return nil, storeErr(err, "update page bindings")
	}
	return stored, nil
}

// LoadPage rebuilds a page from the blocks under rootID.
func (s *Syncer) LoadPage(ctx context.Context, workspace, rootID string) (*Page, error) {
	root, err := s.rootBlock(ctx, workspace, rootID)
	if err != nil {
		return nil, err
	}
	children, err := s.store.Children(ctx, workspace, rootID)
	if err != nil {
		return nil, storeErr(err, "list blocks")
	}

	page := NewPage(rootID)
	for _, b := range children {
		sh, ok := s.decodeShape(b)
		if !ok {
			continue
		}
		sh.AffineID = b.ID
		page.Shapes[sh.ID] = sh
	}
	if page.Bindings, err = decodeBindings(root); err != nil {
		return nil, err
	}
	s.logger.Debug("loaded page", "workspace", workspace, "page", rootID,
		"shapes", len(page.Shapes), "bindings", len(page.Bindings))
	return page, nil
}

func (s *Syncer) rootBlock(ctx context.Context, workspace, rootID string) (Block, error) {
	blocks, err := s.store.Get(ctx, workspace, []string{rootID})
	if err != nil {
		return Block{}, storeErr(err, "get root block")
	}
	if len(blocks) == 0 {
		return Block{}, errors.New(errors.ErrCodeBlockNotFound, "root block %q not found in workspace %q", rootID, workspace)
	}
	return blocks[0], nil
}

func (s *Syncer) decodeShape(b Block) (*Shape, bool) {
	raw, ok := b.Property(PropShape)
	if !ok {
		return nil, false
	}
	var sh Shape
	if err := json.Unmarshal([]byte(raw), &sh); err != nil {
		s.logger.Warn("skipping block with invalid shape", "block", b.ID, "error", err)
		return nil, false
	}
	return &sh, true
}

// decodeBindings reads the bindings property of a page block. A missing
// property is an empty set; null entries are dropped.
func decodeBindings(root Block) (map[string]*Binding, error) {
	out := map[string]*Binding{}
	raw, ok := root.Property(PropBindings)
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode bindings of block %s", root.ID)
	}
	for k, v := range out {
		if v == nil {
			delete(out, k)
		}
	}
	return out, nil
}

func cloneBindings(in map[string]*Binding) map[string]*Binding {
	out := make(map[string]*Binding, len(in))
	for k, v := range in {
		if v == nil {
			out[k] = nil
			continue
		}
		c := *v
		out[k] = &c
	}
	return out
}

func hasDeletions(shapes map[string]*Shape) bool {
	for _, s := range shapes {
		if s == nil {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// storeErr wraps a store failure unless it already carries a code.
func storeErr(err error, format string, args ...any) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeStore, err, format, args...)
}
