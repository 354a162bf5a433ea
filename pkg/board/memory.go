package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/hexboard/pkg/errors"
)

// MemoryStore is a BlockStore held in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	blocks map[string]map[string]*Block // workspace -> id -> block
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks: make(map[string]map[string]*Block),
		now:    time.Now,
	}
}

// Get returns copies of the blocks found among ids.
func (s *MemoryStore) Get(ctx context.Context, workspace string, ids []string) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Block
	ws := s.blocks[workspace]
	for _, id := range ids {
		if b, ok := ws[id]; ok {
			out = append(out, b.clone())
		}
	}
	return out, nil
}

// Children returns the blocks whose parent is parentID, oldest first.
func (s *MemoryStore) Children(ctx context.Context, workspace, parentID string) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Block
	for _, b := range s.blocks[workspace] {
		if b.ParentID == parentID {
			out = append(out, b.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Create stores a new block. A request without an ID gets a random UUID.
func (s *MemoryStore) Create(ctx context.Context, req CreateRequest) (Block, error) {
	if err := ctx.Err(); err != nil {
		return Block{}, err
	}
	if req.Workspace == "" {
		return Block{}, errors.New(errors.ErrCodeInvalidInput, "workspace is required")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.blocks[req.Workspace]
	if ws == nil {
		ws = make(map[string]*Block)
		s.blocks[req.Workspace] = ws
	}
	if _, exists := ws[id]; exists {
		return Block{}, errors.New(errors.ErrCodeInvalidInput, "block %q already exists", id)
	}
	now := s.now()
	b := &Block{
		ID:         id,
		Workspace:  req.Workspace,
		ParentID:   req.ParentID,
		Type:       req.Type,
		Properties: map[string]Property{},
		Created:    now,
		Updated:    now,
	}
	ws[id] = b
	return b.clone(), nil
}

// Update merges req.Properties into the block.
func (s *MemoryStore) Update(ctx context.Context, req UpdateRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blocks[req.Workspace][req.ID]
	if !ok {
		return errors.New(errors.ErrCodeBlockNotFound, "block %q not found in workspace %q", req.ID, req.Workspace)
	}
	for k, v := range req.Properties {
		b.Properties[k] = v
	}
	b.Updated = s.now()
	return nil
}

// Delete removes a block if it exists.
func (s *MemoryStore) Delete(ctx context.Context, workspace, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks[workspace], id)
	return nil
}

// Len returns the number of blocks in a workspace.
func (s *MemoryStore) Len(workspace string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks[workspace])
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (b *Block) clone() Block {
	c := *b
	c.Properties = make(map[string]Property, len(b.Properties))
	for k, v := range b.Properties {
		c.Properties[k] = v
	}
	return c
}

var _ BlockStore = (*MemoryStore)(nil)
