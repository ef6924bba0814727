package wxr

import (
	"errors"
	"strings"
	"testing"

	"go-wxr2md/internal/model"
)

const wxrSample = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
  xmlns:content="http://purl.org/rss/1.0/modules/content/"
  xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:wp="http://wordpress.org/export/1.2/">
  <channel>
    <title>My Blog</title>
    <link>https://blog.example</link>
    <description>Just a blog</description>
    <language>en-US</language>
    <generator>https://wordpress.org/?v=6.4</generator>
    <item>
      <title>Hello World!</title>
      <link>https://blog.example/hello</link>
      <dc:creator><![CDATA[admin]]></dc:creator>
      <category domain="category"><![CDATA[News]]></category>
      <category domain="post_tag"><![CDATA[intro]]></category>
      <excerpt:encoded><![CDATA[summary]]></excerpt:encoded>
      <content:encoded><![CDATA[<p>Hi</p>]]></content:encoded>
      <wp:post_type><![CDATA[post]]></wp:post_type>
      <wp:status><![CDATA[publish]]></wp:status>
    </item>
    <item>
      <title></title>
      <content:encoded><![CDATA[<b>Bold</b>]]></content:encoded>
    </item>
    <item>
      <title>Hello World!</title>
      <content:encoded></content:encoded>
    </item>
  </channel>
</rss>`

func TestParse_Sample(t *testing.T) {
	items, err := ParseBytes([]byte(wxrSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len=%d want=3", len(items))
	}
	a := items[0]
	if a.Index != 0 || a.Title == nil || *a.Title != "Hello World!" {
		t.Fatalf("item0 title: %+v", a)
	}
	if a.RawBody == nil || *a.RawBody != "<p>Hi</p>" {
		t.Fatalf("item0 body should come from content:encoded, got %v", a.RawBody)
	}
	if a.Creator != "admin" || a.PostType != "post" || a.Status != "publish" || a.Link != "https://blog.example/hello" {
		t.Fatalf("item0 metadata: %+v", a)
	}
	if len(a.Categories) != 2 || a.Categories[0] != "News" {
		t.Fatalf("item0 categories: %v", a.Categories)
	}
	if items[1].Title != nil {
		t.Fatalf("empty title should be nil, got %q", *items[1].Title)
	}
	if items[1].RawBody == nil || *items[1].RawBody != "<b>Bold</b>" {
		t.Fatalf("item1 body: %v", items[1].RawBody)
	}
	if items[2].RawBody != nil {
		t.Fatalf("empty content:encoded should be nil")
	}
}

func TestParse_AnyDepth(t *testing.T) {
	doc := `<root xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <item><title>top</title><content:encoded>a</content:encoded></item>
  <wrap><deeper><item><title>deep</title><content:encoded>b</content:encoded></item></deeper></wrap>
</root>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 || *items[1].Title != "deep" || items[1].Index != 1 {
		t.Fatalf("items: %+v", items)
	}
}

func TestParse_ItemInsideUnknownChild(t *testing.T) {
	doc := `<rss><channel><item><title>outer</title>
  <extra><item><title>inner</title></item></extra>
  <link>https://blog.example/outer</link>
</item></channel></rss>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 || *items[0].Title != "outer" || *items[1].Title != "inner" {
		t.Fatalf("items: %+v", items)
	}
	if items[0].Link != "https://blog.example/outer" || items[1].Link != "" {
		t.Fatalf("links: %q %q", items[0].Link, items[1].Link)
	}
}

func TestParse_ContentNamespaceOnly(t *testing.T) {
	doc := `<rss xmlns:other="urn:other"><channel><item>
  <title>t</title>
  <encoded>plain</encoded>
  <other:encoded>other</other:encoded>
</item></channel></rss>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 1 || items[0].RawBody != nil {
		t.Fatalf("non-content namespaces must not be used: %+v", items)
	}
}

func TestParse_FirstChildWins(t *testing.T) {
	doc := `<rss xmlns:content="http://purl.org/rss/1.0/modules/content/"><channel><item>
  <title>first</title><title>second</title>
  <content:encoded>one</content:encoded><content:encoded>two</content:encoded>
</item></channel></rss>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *items[0].Title != "first" || *items[0].RawBody != "one" {
		t.Fatalf("first child should win: %+v", items[0])
	}
}

func TestParse_EmptyFirstChildStillWins(t *testing.T) {
	doc := `<rss xmlns:content="http://purl.org/rss/1.0/modules/content/"><channel><item>
  <title></title><title>second</title>
  <content:encoded></content:encoded><content:encoded>two</content:encoded>
</item></channel></rss>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Title != nil {
		t.Fatalf("empty first title must not be replaced, got %q", *items[0].Title)
	}
	if items[0].RawBody != nil {
		t.Fatalf("empty first body must not be replaced, got %q", *items[0].RawBody)
	}
}

func TestParse_NestedMarkupIsItemError(t *testing.T) {
	doc := `<rss xmlns:content="http://purl.org/rss/1.0/modules/content/"><channel>
<item><title>bad</title><content:encoded><p>unescaped</p></content:encoded></item>
<item><title>ok</title><content:encoded>fine</content:encoded></item>
</channel></rss>`
	items, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("nested markup must not fail the document: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Err == nil || items[0].RawBody == nil {
		t.Fatalf("item0 should carry an item error and a body: %+v", items[0])
	}
	if items[1].Err != nil {
		t.Fatalf("item1 unexpected error: %v", items[1].Err)
	}
}

func TestParse_Malformed(t *testing.T) {
	bad := map[string]string{
		"mismatched": `<rss><channel><item><title>x</item></channel></rss>`,
		"truncated":  `<rss><channel><item><title>x</title>`,
		"empty":      ``,
		"not xml":    `just some text`,
		"bad utf8":   "<rss><channel><item><title>\xff\xfe</title></item></channel></rss>",
	}
	for name, doc := range bad {
		_, err := ParseBytes([]byte(doc))
		var pe *model.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: want ParseError, got %v", name, err)
		}
	}
}

func TestParse_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<rss><channel><item><title>caf\xe9</title></item></channel></rss>"
	items, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *items[0].Title != "café" {
		t.Fatalf("title=%q", *items[0].Title)
	}
}

func TestSiteInfo(t *testing.T) {
	site, err := SiteInfo([]byte(wxrSample))
	if err != nil {
		t.Fatalf("site: %v", err)
	}
	if site.Title != "My Blog" || site.Link != "https://blog.example" || site.Language != "en-US" {
		t.Fatalf("site: %+v", site)
	}
	if !strings.Contains(site.Generator, "wordpress.org") {
		t.Fatalf("generator: %q", site.Generator)
	}
}
