package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go-wxr2md/internal/model"
)

func unzip(t *testing.T, b []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = string(data)
	}
	return out
}

func sampleResult() *model.Result {
	res := &model.Result{Documents: 1}
	res.Outputs = []model.NamedOutput{
		{Filename: "Hello World.md", Content: "Hi"},
		{Filename: "untitled_1.md", Content: "**Bold**"},
	}
	res.Processed = 2
	res.AppendCombined("Hello World!", "Hi")
	res.AppendCombined("", "**Bold**")
	return res
}

func TestPackage_Individual(t *testing.T) {
	b, err := Package(sampleResult(), model.DefaultOptions())
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	files := unzip(t, b)
	if len(files) != 2 || files["Hello World.md"] != "Hi" || files["untitled_1.md"] != "**Bold**" {
		t.Fatalf("entries: %v", files)
	}
}

func TestPackage_Combined(t *testing.T) {
	opts := model.DefaultOptions()
	opts.Mode = model.ModeCombined
	b, err := Package(sampleResult(), opts)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	files := unzip(t, b)
	if len(files) != 1 {
		t.Fatalf("want exactly one entry, got %v", files)
	}
	want := "\n\n# Hello World!\n\nHi\n\n# \n\n**Bold**"
	if got, ok := files["concatenated_markdown.md"]; !ok || got != want {
		t.Fatalf("combined = %q, want %q", got, want)
	}
}

func TestPackage_EntryNamesResanitized(t *testing.T) {
	res := &model.Result{Outputs: []model.NamedOutput{
		{Filename: "a/b.md", Content: "1"},
		{Filename: "a_b.md", Content: "2"},
	}, Processed: 2}
	b, err := Package(res, model.DefaultOptions())
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	files := unzip(t, b)
	if files["a_b.md"] != "1" || files["a_b_1.md"] != "2" {
		t.Fatalf("entries: %v", files)
	}
}

func TestPackage_Manifest(t *testing.T) {
	opts := model.DefaultOptions()
	opts.Manifest = true
	b, err := Package(sampleResult(), opts)
	if err != nil {
		t.Fatalf("package: %v", err)
	}
	files := unzip(t, b)
	var s model.Summary
	if err := json.Unmarshal([]byte(files[ManifestName]), &s); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if s.Processed != 2 || len(s.Files) != 2 {
		t.Fatalf("manifest summary: %+v", s)
	}
}

func TestPackage_Nothing(t *testing.T) {
	for _, mode := range []model.OutputMode{model.ModeIndividual, model.ModeCombined} {
		opts := model.DefaultOptions()
		opts.Mode = mode
		if _, err := Package(&model.Result{}, opts); !errors.Is(err, model.ErrNothingToPackage) {
			t.Fatalf("%s: want ErrNothingToPackage, got %v", mode, err)
		}
	}
}

func TestToJSONFile(t *testing.T) {
	res := sampleResult()
	res.Errors = []error{&model.ParseError{Document: "bad.xml", Err: errors.New("boom")}}
	res.Warnings = []model.Warning{{Kind: model.WarnEmpty, Index: 3, Message: "skipped"}}
	out := filepath.Join(t.TempDir(), "summary.json")
	if err := ToJSONFile(out, Summarize(res, model.DefaultOptions())); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := os.ReadFile(out)
	var s model.Summary
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Errors) != 1 || s.Errors[0] != "parse export bad.xml: boom" || len(s.Warnings) != 1 {
		t.Fatalf("summary: %+v", s)
	}
	if Checksum([]byte("x")) != "2d711642b726b04401627ca9fbac32f5c8530fb1903cc4db02258717921a4881" {
		t.Fatalf("checksum mismatch")
	}
}
