package sanitize

import (
	"testing"

	"go-wxr2md/internal/model"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World!", "Hello World"},
		{"  Café au lait  ", "Cafe au lait"},
		{"naïve résumé", "naive resume"},
		{"a/b\\c:d?e*f", "abcdef"},
		{"v1.2 release-notes_final", "v1.2 release-notes_final"},
		{"日本語", ""},
		{"!!!", ""},
		{"   ", ""},
		{"Ünïcödé — dash", "Unicode  dash"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplySpaces(t *testing.T) {
	if got := ApplySpaces("Hello World", model.SpacesKeep); got != "Hello World" {
		t.Fatalf("keep: %q", got)
	}
	if got := ApplySpaces("Hello World", model.SpacesStrip); got != "HelloWorld" {
		t.Fatalf("strip: %q", got)
	}
	if got := ApplySpaces("Hello World", model.SpacesUnderscore); got != "Hello_World" {
		t.Fatalf("underscore: %q", got)
	}
}

func TestBase(t *testing.T) {
	cases := []struct {
		in   string
		mode model.SpaceMode
		want string
	}{
		{"Hello World!", model.SpacesKeep, "Hello World"},
		{"Hello World!", model.SpacesStrip, "HelloWorld"},
		{".", model.SpacesKeep, ""},
		{"...", model.SpacesKeep, ""},
		{". hidden", model.SpacesKeep, "hidden"},
		{".env file", model.SpacesUnderscore, "env_file"},
		{"v1.2", model.SpacesKeep, "v1.2"},
	}
	for _, c := range cases {
		if got := Base(c.in, c.mode); got != c.want {
			t.Errorf("Base(%q, %s) = %q, want %q", c.in, c.mode, got, c.want)
		}
	}
	// 清理后的名字再经过 EntryName 不应改变
	for _, c := range cases {
		if b := Base(c.in, c.mode); b != "" && EntryName(b+".md") != b+".md" {
			t.Errorf("EntryName changed %q", b+".md")
		}
	}
}

func TestNamer_Unique(t *testing.T) {
	n := NewNamer()
	got := []string{
		n.Unique("post.md"),
		n.Unique("post.md"),
		n.Unique("post.md"),
		n.Unique("post_1.md"),
		n.Unique("untitled_0"),
		n.Unique("untitled_0"),
	}
	want := []string{"post.md", "post_1.md", "post_2.md", "post_1_1.md", "untitled_0", "untitled_0_1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unique[%d] = %q, want %q (all=%v)", i, got[i], want[i], got)
		}
	}
	// 新生成的名字同样被登记
	if got := n.Unique("post_2.md"); got != "post_2_1.md" {
		t.Fatalf("generated name not recorded: %q", got)
	}
	if got := n.Unique("post_3.md"); got != "post_3.md" {
		t.Fatalf("unused name changed: %q", got)
	}
}

func TestEntryName(t *testing.T) {
	cases := map[string]string{
		"post.md":        "post.md",
		"../etc/passwd":  "_etc_passwd",
		"a/b.md":         "a_b.md",
		".hidden.md":     "hidden.md",
		"":               "untitled",
		"dir\\file.md":   "dir_file.md",
		"Hello World.md": "Hello World.md",
	}
	for in, want := range cases {
		if got := EntryName(in); got != want {
			t.Errorf("EntryName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	if Placeholder(3) != "untitled_3" {
		t.Fatalf("placeholder = %q", Placeholder(3))
	}
}
