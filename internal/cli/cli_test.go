package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/pipeline"
)

const testPage = `{
  "id": "root",
  "shapes": {
    "a": {"id": "a", "type": "hexagon", "point": [0, 0], "size": [100, 50],
          "style": {"color": "blue", "size": "medium", "dash": "draw"}, "label": "A"},
    "b": {"id": "b", "type": "hexagon", "point": [200, 0], "size": [100, 50], "style": {}},
    "n": {"id": "n", "type": "arrow", "point": [100, 25], "size": [100, 0], "style": {}}
  },
  "bindings": {"ab": {"id": "ab", "fromId": "a", "toId": "b"}}
}`

// setupEnv isolates config and cache directories.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Size
		wantErr bool
	}{
		{"100x50", geom.Size{W: 100, H: 50}, false},
		{"12.5X8", geom.Size{W: 12.5, H: 8}, false},
		{" 3 x 4 ", geom.Size{W: 3, H: 4}, false},
		{"0x0", geom.Size{}, false},
		{"100", geom.Size{}, true},
		{"-1x5", geom.Size{}, true},
		{"axb", geom.Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, png,,dot", []string{"svg", "png", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name, output, input string
		formats             []string
		want                map[string]string
	}{
		{"default", "", "dir/board.json", []string{"svg"}, map[string]string{"svg": "dir/board.svg"}},
		{"explicit single", "out.svg", "board.json", []string{"svg"}, map[string]string{"svg": "out.svg"}},
		{"stdout", "-", "board.json", []string{"dot"}, map[string]string{"dot": "-"}},
		{"several", "out/b.svg", "board.json", []string{"svg", "png"}, map[string]string{"svg": "out/b.svg", "png": "out/b.png"}},
		{"bindings", "", "board.json", []string{"svg", "bindings"}, map[string]string{"svg": "board.svg", "bindings": "board.bindings.svg"}},
		{"stdin", "", "-", []string{"svg", "png"}, map[string]string{"svg": "page.svg", "png": "page.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", "hexboard"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, err = cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".cache", "hexboard"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestHexagonPoints(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "hexagon", "points", "--size", "100x50", "--json")
	if err != nil {
		t.Fatalf("hexagon points: %v", err)
	}
	var pts [][2]float64
	if err := json.Unmarshal([]byte(out), &pts); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := [][2]float64{{20, 0}, {80, 0}, {100, 25}, {80, 50}, {20, 50}, {0, 25}}
	if len(pts) != len(want) {
		t.Fatalf("got %d points, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestHexagonPointsRotated(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "hexagon", "points", "--size", "100x100", "--rotation", "180", "--json")
	if err != nil {
		t.Fatalf("hexagon points: %v", err)
	}
	var pts [][2]float64
	if err := json.Unmarshal([]byte(out), &pts); err != nil {
		t.Fatal(err)
	}
	// A half turn about the center maps [20,0] to [80,100].
	if math.Abs(pts[0][0]-80) > 1e-9 || math.Abs(pts[0][1]-100) > 1e-9 {
		t.Errorf("first point = %v, want [80 100]", pts[0])
	}
}

func TestHexagonCentroid(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "hexagon", "centroid", "--size", "100x50")
	if err != nil {
		t.Fatalf("hexagon centroid: %v", err)
	}
	if !strings.Contains(out, "66.67") || !strings.Contains(out, "8.33") {
		t.Errorf("output %q should show 66.67, 8.33", out)
	}
}

func TestHexagonPath(t *testing.T) {
	setupEnv(t)
	closed, err := run(t, "hexagon", "path", "--id", "shape:1", "--size", "120x80", "--color", "red")
	if err != nil {
		t.Fatalf("hexagon path: %v", err)
	}
	closed = strings.TrimSpace(closed)
	if !strings.HasPrefix(closed, "M") || !strings.HasSuffix(closed, "Z") {
		t.Errorf("path = %q, want a closed path", closed)
	}

	again, err := run(t, "hexagon", "path", "--id", "shape:1", "--size", "120x80", "--color", "red")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(again) != closed {
		t.Error("the same id should draw the same path")
	}

	open, err := run(t, "hexagon", "path", "--id", "shape:1", "--size", "120x80", "--indicator")
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(strings.TrimSpace(open), "Z") {
		t.Errorf("indicator path %q should be open", open)
	}

	_, err = run(t, "hexagon", "path", "--size", "10x10", "--color", "mauve")
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("bad color error = %v, want INVALID_STYLE", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := setupEnv(t)
	input := writeFile(t, dir, "board.json", testPage)

	out, err := run(t, "render", input, "-f", "svg,dot", "--labels")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "board.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte(`id="shape-a"`)) || !bytes.Contains(svg, []byte(">A</text>")) {
		t.Errorf("svg missing shape a or its label:\n%s", svg)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "board.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !bytes.Contains(dot, []byte("digraph")) {
		t.Errorf("dot output = %s", dot)
	}
	if !strings.Contains(out, "board.svg") {
		t.Errorf("output %q should list the written files", out)
	}

	out, err = run(t, "render", input, "-f", "svg,dot", "--labels")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second render output %q should report a cache hit", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := setupEnv(t)
	input := writeFile(t, dir, "board.json", testPage)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", input, "-f", "pdf"}, errors.ErrCodeInvalidFormat},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"bad scale", []string{"render", input, "-f", "png", "--scale", "100"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSyncCommand(t *testing.T) {
	dir := setupEnv(t)
	changes := writeFile(t, dir, "changes.json", `{
	  "shapes": {"a": {"id": "a", "type": "hexagon", "point": [0, 0], "size": [50, 50], "style": {"color": "black", "size": "small"}}},
	  "bindings": {}
	}`)

	out, err := run(t, "sync", changes, "--workspace", "ws", "--page", "root", "--create", "--json")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	var res board.SyncResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Created != 1 || res.BlockIDs["a"] == "" {
		t.Errorf("result = %+v, want one created block for a", res)
	}

	_, err = run(t, "sync", changes, "--workspace", "ws", "--page", "root")
	if !errors.Is(err, errors.ErrCodeBlockNotFound) {
		t.Errorf("sync without --create on a fresh store: error = %v, want BLOCK_NOT_FOUND", err)
	}
	_, err = run(t, "sync", changes, "--page", "root")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("sync without workspace: error = %v, want INVALID_INPUT", err)
	}
}

func TestInspectList(t *testing.T) {
	dir := setupEnv(t)
	input := writeFile(t, dir, "board.json", testPage)

	out, err := run(t, "inspect", input, "--list")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Page root", "hexagon", "arrow", "centroid", "[1/3]"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	_, err = run(t, "inspect", "--list")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("inspect without input: error = %v, want INVALID_INPUT", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := setupEnv(t)
	cfg := writeFile(t, dir, "hexboard.toml", "[render]\nscale = 3\n")

	out, err := run(t, "--config", cfg, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "scale = 3.0") {
		t.Errorf("config show output missing scale:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "config", "path")
	if err != nil || strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q, %v; want %q", out, err, cfg)
	}

	bad := writeFile(t, dir, "bad.toml", "[render]\nwat = 1\n")
	if _, err := run(t, "--config", bad, "cache", "path"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key error = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := setupEnv(t)
	input := writeFile(t, dir, "board.json", testPage)
	if _, err := run(t, "render", input); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", "hexboard"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, err = run(t, "cache", "clear", "--expired")
	if err != nil {
		t.Fatalf("cache clear --expired: %v", err)
	}
	if !strings.Contains(out, "Cleared 0 expired entries") {
		t.Errorf("cache clear --expired output = %q", out)
	}

	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestBasePathKnownExtensions(t *testing.T) {
	for f := range pipeline.ValidFormats {
		if got := basePath("out."+f, "in.json"); got != "out" {
			t.Errorf("basePath(out.%s) = %q, want out", f, got)
		}
	}
	if got := basePath("out.txt", "in.json"); got != "out.txt" {
		t.Errorf("basePath(out.txt) = %q, want unchanged", got)
	}
}
