package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linktext"
)

// MountSelector matches the root elements client-side frameworks render into.
const MountSelector = "#root, #app, #__next, #__nuxt, #___gatsby, #svelte, [data-reactroot], [ng-app], [ng-version]"

// DefaultShellTextLength is the visible text length below which a page with
// scripts is considered an unrendered shell.
const DefaultShellTextLength = 200

// Ensure ShellDetector implements linktext.RenderDetector at compile time.
var _ linktext.RenderDetector = (*ShellDetector)(nil)

// ShellDetector flags pages whose static markup is an application shell:
// a framework mount point or a script-only body with almost no readable
// text, or a generator known to render its content client-side.
type ShellDetector struct {
	minText int
}

// NewShellDetector creates a new ShellDetector.
func NewShellDetector() *ShellDetector {
	return &ShellDetector{minText: DefaultShellTextLength}
}

// NeedsRender reports whether html looks like it needs script execution to
// show its content. Unparseable markup is never flagged.
func (d *ShellDetector) NeedsRender(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	// Known client-rendered generators first; they render even when the
	// shell already carries some text.
	if d.clientRenderedGenerator(doc) || d.hasGitBookClasses(doc) {
		return true
	}

	if doc.Find("script").Length() == 0 {
		return false
	}

	body := doc.Find("body").Clone()
	body.Find(NoiseSelector).Remove()
	text := strings.Join(strings.Fields(body.Text()), " ")
	if utf8.RuneCountInString(text) >= d.minText {
		return false
	}

	return doc.Find(MountSelector).Length() > 0 || noscriptAsksForJS(doc)
}

// clientRenderedGenerator checks the meta generator tag for generators that
// ship empty static pages.
func (d *ShellDetector) clientRenderedGenerator(doc *goquery.Document) bool {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})
	return strings.Contains(generator, "gitbook") || strings.Contains(generator, "zeroheight")
}

// hasGitBookClasses checks for GitBook-specific classes on the html element.
// GitBook uses a combination of: circular-corners, theme-clean, tint
func (d *ShellDetector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass, _ := doc.Find("html").Attr("class")
	if htmlClass == "" {
		return false
	}

	count := 0
	for _, class := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, class) {
			count++
		}
	}

	// Require at least two of these GitBook-specific classes
	return count >= 2
}

func noscriptAsksForJS(doc *goquery.Document) bool {
	found := false
	doc.Find("noscript").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.Contains(strings.ToLower(s.Text()), "javascript")
		return !found
	})
	return found
}
