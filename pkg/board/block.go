package board

import (
	"context"
	"time"
)

// BlockType is the kind of a stored block.
type BlockType string

// Block types written by the syncer.
const (
	BlockPage  BlockType = "page"
	BlockGroup BlockType = "group"
	BlockShape BlockType = "shape"
)

// Property keys used on blocks.
const (
	PropShape    = "shapeProps"
	PropBindings = "bindings"
)

// Property is a single string-valued block property.
type Property struct {
	Value string `json:"value"`
}

// Block is one stored record.
type Block struct {
	ID         string              `json:"id"`
	Workspace  string              `json:"workspace"`
	ParentID   string              `json:"parentId,omitempty"`
	Type       BlockType           `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Created    time.Time           `json:"created"`
	Updated    time.Time           `json:"updated"`
}

// Property returns the value of the named property and whether it is set.
func (b Block) Property(name string) (string, bool) {
	p, ok := b.Properties[name]
	return p.Value, ok
}

// CreateRequest describes a block to create. An empty ID lets the store pick
// one.
type CreateRequest struct {
	ID        string
	Workspace string
	ParentID  string
	Type      BlockType
}

// UpdateRequest sets properties on an existing block. Properties not named
// are left as they are.
type UpdateRequest struct {
	Workspace  string
	ID         string
	Properties map[string]Property
}

// BlockStore persists blocks.
//
// Get returns the blocks that exist among ids, in the order requested;
// missing ids are skipped. Update of a missing block fails with
// errors.ErrCodeBlockNotFound. Delete of a missing block is not an error.
type BlockStore interface {
	Get(ctx context.Context, workspace string, ids []string) ([]Block, error)
	Children(ctx context.Context, workspace, parentID string) ([]Block, error)
	Create(ctx context.Context, req CreateRequest) (Block, error)
	Update(ctx context.Context, req UpdateRequest) error
	Delete(ctx context.Context, workspace, id string) error
	Close() error
}

func blockTypeFor(t ShapeType) BlockType {
	if t == ShapeEditor {
		return BlockGroup
	}
	return BlockShape
}
