package board

import (
	"strings"
	"testing"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

func hex(id string) *Shape {
	return &Shape{
		ID:    id,
		Type:  ShapeHexagon,
		Point: geom.Pt(10, 20),
		Size:  geom.Size{W: 100, H: 50},
		Style: style.Default(),
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("ws", "root")
	if doc.ID != "ws" {
		t.Errorf("ID = %q, want ws", doc.ID)
	}
	page, ok := doc.Pages["root"]
	if !ok {
		t.Fatal("document has no root page")
	}
	if page.Name != "Page root" || page.ChildIndex != 1 {
		t.Errorf("page = %+v", page)
	}
	if len(page.Shapes) != 0 || len(page.Bindings) != 0 {
		t.Error("new page should be empty")
	}
	st := doc.PageStates["root"]
	if st == nil || st.Camera.Zoom != 1 || st.Camera.Point != (geom.Point{}) {
		t.Errorf("page state = %+v", st)
	}
}

func TestReadPage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		shapes  int
	}{
		{
			name:   "bare page",
			input:  `{"id":"p","shapes":{"a":{"id":"a","type":"hexagon","point":[0,0],"size":[100,50],"style":{"color":"black","size":"small","dash":"draw"}}}}`,
			shapes: 1,
		},
		{
			name:   "document with one page",
			input:  `{"id":"ws","pages":{"p":{"id":"p","shapes":{},"bindings":{}}}}`,
			shapes: 0,
		},
		{
			name:    "document with two pages",
			input:   `{"id":"ws","pages":{"p":{"id":"p"},"q":{"id":"q"}}}`,
			wantErr: true,
		},
		{
			name:    "key mismatch",
			input:   `{"id":"p","shapes":{"a":{"id":"b","type":"rectangle","point":[0,0],"size":[1,1],"style":{}}}}`,
			wantErr: true,
		},
		{
			name:   "unstyled hexagon",
			input:  `{"id":"p","shapes":{"a":{"id":"a","type":"hexagon","point":[0,0],"size":[1,1],"style":{}}}}`,
			shapes: 1,
		},
		{
			name:    "bad style",
			input:   `{"id":"p","shapes":{"a":{"id":"a","type":"hexagon","point":[0,0],"size":[1,1],"style":{"color":"mauve","size":"small"}}}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `{`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ReadPage(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadPage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if errors.GetCode(err) == "" {
					t.Errorf("error %v carries no code", err)
				}
				return
			}
			if len(page.Shapes) != tt.shapes {
				t.Errorf("shapes = %d, want %d", len(page.Shapes), tt.shapes)
			}
			if page.Bindings == nil {
				t.Error("Bindings should never be nil")
			}
		})
	}
}

func TestSortedShapes(t *testing.T) {
	p := NewPage("p")
	for i, id := range []string{"c", "a", "b"} {
		s := hex(id)
		s.ChildIndex = float64(3 - i)
		p.Shapes[id] = s
	}
	p.Shapes["d"] = hex("d")
	p.Shapes["d"].ChildIndex = 2

	var got []string
	for _, s := range p.SortedShapes() {
		got = append(got, s.ID)
	}
	if strings.Join(got, ",") != "b,a,d,c" {
		t.Errorf("SortedShapes() = %v, want [b a d c]", got)
	}
}

func TestMarshalPageRoundTrip(t *testing.T) {
	p := NewPage("p")
	p.Shapes["a"] = hex("a")
	p.Bindings["b1"] = &Binding{ID: "b1", FromID: "a", ToID: "x"}

	data, err := MarshalPage(p)
	if err != nil {
		t.Fatalf("MarshalPage: %v", err)
	}
	got, err := ReadPage(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if *got.Shapes["a"] != *p.Shapes["a"] {
		t.Errorf("shape = %+v, want %+v", got.Shapes["a"], p.Shapes["a"])
	}
	if *got.Bindings["b1"] != *p.Bindings["b1"] {
		t.Errorf("binding = %+v", got.Bindings["b1"])
	}
}
