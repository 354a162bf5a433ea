package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	if got := Default().Style.Style(); got != style.Default() {
		t.Errorf("default style = %+v, want %+v", got, style.Default())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "90m"

[store]
backend = "mongo"
mongo_uri = "mongodb://db:27017"

[render]
indicators = true

[style]
color = "blue"
size = "large"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.Database != "hexboard" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if !cfg.Render.Indicators || cfg.Render.Scale != 2 {
		t.Errorf("Render = %+v, want indicators on and the default scale", cfg.Render)
	}
	if st := cfg.Style.Style(); st.Color != style.ColorBlue || st.Size != style.SizeLarge || st.Dash != style.DashDraw {
		t.Errorf("Style = %+v", st)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("unset sections keep defaults, got %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "[cache]\nbackend = \"file\"\ncolour = \"red\"\n", errors.ErrCodeInvalidInput},
		{"bad toml", "[cache\n", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidInput},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidInput},
		{"bad mongo uri", "[store]\nbackend = \"mongo\"\nmongo_uri = \"http://x\"\n", errors.ErrCodeInvalidInput},
		{"bad style", "[style]\ncolor = \"mauve\"\n", errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("Cache.Backend = %q, want default", cfg.Cache.Backend)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "hexboard", FileName); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = Duration{3 * time.Hour}

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(encoded): %v\n%s", err, buf.String())
	}
	if got.Cache.TTL.Duration != 3*time.Hour {
		t.Errorf("TTL = %v, want 3h", got.Cache.TTL)
	}
}
