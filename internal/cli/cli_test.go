package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()

	want := []string{"expand", "explore", "render", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RootCommand() missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug message should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug message should appear at debug level")
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatalf("loadCatalog(\"\") error: %v", err)
	}
	if cat.Name == "" {
		t.Error("default catalog should have a name")
	}
	if cat.RootNode.ID == "" {
		t.Error("default catalog should have a root node")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := loadCatalog(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadCatalog() should fail for a missing file")
	}
}

func TestNewGeneratorOffline(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(os.Stderr, log.InfoLevel)
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatal(err)
	}

	gen, err := c.newGenerator(cat, generatorOptions{offline: true})
	if err != nil {
		t.Fatalf("newGenerator(offline) error: %v", err)
	}
	if gen == nil {
		t.Fatal("newGenerator(offline) returned nil generator")
	}
}

func TestNewGeneratorMissingKey(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(os.Stderr, log.InfoLevel)
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.newGenerator(cat, generatorOptions{}); err == nil {
		t.Error("newGenerator() without API key should fail")
	}
}
