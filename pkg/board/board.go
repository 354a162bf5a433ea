package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

// ShapeType names the kind of a shape.
type ShapeType string

// Shape types understood by the renderers. Other types are carried through
// sync untouched.
const (
	ShapeHexagon   ShapeType = "hexagon"
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeArrow     ShapeType = "arrow"
	ShapeEditor    ShapeType = "editor"
)

// Shape is one element on a page.
type Shape struct {
	ID         string      `json:"id"`
	AffineID   string      `json:"affineId,omitempty"`
	Type       ShapeType   `json:"type"`
	Name       string      `json:"name,omitempty"`
	ParentID   string      `json:"parentId,omitempty"`
	ChildIndex float64     `json:"childIndex,omitempty"`
	Workspace  string      `json:"workspace,omitempty"`
	Point      geom.Point  `json:"point"`
	Size       geom.Size   `json:"size"`
	Rotation   float64     `json:"rotation,omitempty"`
	Style      style.Style `json:"style"`
	Label      string      `json:"label,omitempty"`
}

// Validate checks the fields every shape needs.
func (s *Shape) Validate() error {
	if s.ID == "" {
		return errors.New(errors.ErrCodeInvalidShape, "shape id is required")
	}
	if s.Type == "" {
		return errors.New(errors.ErrCodeInvalidShape, "shape %q has no type", s.ID)
	}
	if s.Size.W < 0 || s.Size.H < 0 {
		return errors.New(errors.ErrCodeInvalidShape, "shape %q has negative size", s.ID)
	}
	if s.Type == ShapeHexagon && !s.Unstyled() {
		if err := s.Style.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStyle, err, "shape %q", s.ID)
		}
	}
	return nil
}

// Unstyled reports whether the shape has neither a color nor a size. Such
// shapes take the renderer's default style.
func (s *Shape) Unstyled() bool {
	return s.Style.Color == "" && s.Style.Size == ""
}

// Binding connects two shapes, usually an arrow to its target.
type Binding struct {
	ID     string `json:"id"`
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
	Handle string `json:"handle,omitempty"`
}

// Page is a single canvas.
type Page struct {
	ID         string              `json:"id"`
	Name       string              `json:"name,omitempty"`
	ChildIndex float64             `json:"childIndex,omitempty"`
	Shapes     map[string]*Shape   `json:"shapes"`
	Bindings   map[string]*Binding `json:"bindings"`
}

// NewPage returns an empty page named after its id.
func NewPage(id string) *Page {
	return &Page{
		ID:         id,
		Name:       "Page " + id,
		ChildIndex: 1,
		Shapes:     map[string]*Shape{},
		Bindings:   map[string]*Binding{},
	}
}

// SortedShapes returns the page shapes in drawing order: by child index, then
// by id.
func (p *Page) SortedShapes() []*Shape {
	out := make([]*Shape, 0, len(p.Shapes))
	for _, s := range p.Shapes {
		if s != nil {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChildIndex != out[j].ChildIndex {
			return out[i].ChildIndex < out[j].ChildIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Validate checks every shape and that each map key matches its value's id.
func (p *Page) Validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "page id is required")
	}
	for key, s := range p.Shapes {
		if s == nil {
			return errors.New(errors.ErrCodeInvalidDocument, "page %q: shape %q is null", p.ID, key)
		}
		if s.ID != key {
			return errors.New(errors.ErrCodeInvalidDocument, "page %q: shape key %q does not match id %q", p.ID, key, s.ID)
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	for key, b := range p.Bindings {
		if b == nil || b.ID != key {
			return errors.New(errors.ErrCodeInvalidDocument, "page %q: binding %q is null or mislabelled", p.ID, key)
		}
	}
	return nil
}

// Camera is the viewport of a page.
type Camera struct {
	Point geom.Point `json:"point"`
	Zoom  float64    `json:"zoom"`
}

// PageState is the per-page editor state stored beside the page.
type PageState struct {
	ID          string   `json:"id"`
	Camera      Camera   `json:"camera"`
	SelectedIDs []string `json:"selectedIds"`
}

// Document is the set of pages of one workspace.
type Document struct {
	ID         string                `json:"id"`
	Name       string                `json:"name,omitempty"`
	Version    float64               `json:"version,omitempty"`
	Pages      map[string]*Page      `json:"pages"`
	PageStates map[string]*PageState `json:"pageStates"`
}

// DocumentVersion is written into new documents.
const DocumentVersion = 15.3

// NewDocument returns the document a workspace starts with: one empty page
// whose id is the root block id, with the camera at the origin.
func NewDocument(workspace, rootBlockID string) *Document {
	return &Document{
		ID:      workspace,
		Name:    "New Document",
		Version: DocumentVersion,
		Pages:   map[string]*Page{rootBlockID: NewPage(rootBlockID)},
		PageStates: map[string]*PageState{
			rootBlockID: {
				ID:          rootBlockID,
				Camera:      Camera{Zoom: 1},
				SelectedIDs: []string{},
			},
		},
	}
}

// ReadPage decodes a page from JSON. The input may be a bare page or a
// document holding exactly one page.
func ReadPage(r io.Reader) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read page")
	}

	var probe struct {
		Pages map[string]json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode page")
	}
	if probe.Pages != nil {
		if len(probe.Pages) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "document has %d pages, want 1", len(probe.Pages))
		}
		for _, raw := range probe.Pages {
			data = raw
		}
	}

	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode page")
	}
	if p.Shapes == nil {
		p.Shapes = map[string]*Shape{}
	}
	if p.Bindings == nil {
		p.Bindings = map[string]*Binding{}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadPageFile reads a page from a JSON file.
func ReadPageFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "page file %s", path)
		}
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return ReadPage(f)
}

// MarshalPage encodes p as indented JSON.
func MarshalPage(p *Page) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
