package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-wxr2md/internal/model"
)

func TestConfig_DefaultsAndValidate(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "c.yaml")
	_ = os.WriteFile(f, []byte("OUTPUT_MODE: combined\nHEADING_STYLE: setext\n"), 0644)
	c, err := Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Listen != ":8080" || c.DownloadName != "markdown_files.zip" || c.MaxUploadMB != 32 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.Database.Type != "sqlite" || c.Database.DSN == "" {
		t.Fatalf("db defaults not applied: %+v", c.Database)
	}
	if !c.Simple() {
		t.Fatalf("simple mode should default to true")
	}
	o := c.Options()
	if o.Mode != model.ModeCombined || o.HeadingStyle != model.HeadingSetext || !o.SkipEmpty || o.Format != model.FormatMarkdown {
		t.Fatalf("options: %+v", o)
	}

	if c.ResetOnStart {
		t.Fatalf("RESET_ON_START should default to false")
	}

	_ = os.WriteFile(f, []byte("SKIP_EMPTY: false\nSIMPLE_MODE: false\nFILENAME_SPACES: strip\nRESET_ON_START: true\n"), 0644)
	c, err = Load(f)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.ResetOnStart {
		t.Fatalf("RESET_ON_START not loaded")
	}
	if c.Options().SkipEmpty || c.Simple() || c.Options().Spaces != model.SpacesStrip {
		t.Fatalf("explicit false ignored: %+v", c.Options())
	}
}

func TestConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "c.yaml")
	for _, body := range []string{
		"HEADING_STYLE: fancy\n",
		"OUTPUT_MODE: tarball\n",
		"MAX_UPLOAD_MB: -1\n",
		"DATABASE:\n  type: postgres\n",
	} {
		_ = os.WriteFile(f, []byte(body), 0644)
		if _, err := Load(f); err == nil {
			t.Fatalf("expect error for %q", body)
		}
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config should fall back: %v", err)
	}
	if c.Options().Mode != model.ModeIndividual {
		t.Fatalf("default mode: %+v", c.Options())
	}
}
