package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/linktext"
	"github.com/fwojciec/linktext/goquery"
	lthttp "github.com/fwojciec/linktext/http"
	"github.com/fwojciec/linktext/mock"
	"github.com/fwojciec/linktext/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pages maps URL to HTML; a missing URL fails with "not found".
func pagesFetcher(pages map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[url]
			if !ok {
				return "", linktext.Errorf(linktext.EFETCH, "HTTP 404 for %s", url)
			}
			return html, nil
		},
	}
}

func sessionOf(s *scrape.Session) scrape.SessionFunc {
	return func(context.Context) (*scrape.Session, error) {
		return s, nil
	}
}

func page(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func sections(doc string) []string {
	parts := strings.Split(doc, linktext.SectionRule+"\n")
	return parts[:len(parts)-1]
}

func TestAggregator_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("returns sentinel for empty list without opening a session", func(t *testing.T) {
		t.Parallel()

		a := &scrape.Aggregator{
			Open: func(context.Context) (*scrape.Session, error) {
				t.Fatal("session must not be opened")
				return nil, nil
			},
		}

		doc, err := a.Scrape(context.Background(), []string{})

		require.NoError(t, err)
		assert.Equal(t, linktext.NoLinksMessage, doc)
	})

	t.Run("emits one section per URL in input order", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{
			"https://a.example": page("Alpha paragraph that is long enough to keep."),
			"https://b.example": page("Bravo paragraph that is long enough to keep."),
			"https://c.example": page("Charlie paragraph that is long enough to keep."),
		})}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example", "https://b.example", "https://c.example"})

		require.NoError(t, err)
		got := sections(doc)
		require.Len(t, got, 3)
		assert.Contains(t, got[0], "Source: https://a.example\n\nAlpha paragraph")
		assert.Contains(t, got[1], "Source: https://b.example\n\nBravo paragraph")
		assert.Contains(t, got[2], "Source: https://c.example\n\nCharlie paragraph")
	})

	t.Run("collapses blank lines inside a fragment", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{"https://a.example": "<html></html>"})}
		a := &scrape.Aggregator{
			Open: sessionOf(s),
			Extractor: &mock.Extractor{ExtractFn: func(string) ([]string, error) {
				return []string{"First nested paragraph.\n\n\nSecond nested paragraph.", "Next fragment."}, nil
			}},
		}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example"})

		require.NoError(t, err)
		assert.Equal(t, "Source: https://a.example\n\n"+
			"First nested paragraph. Second nested paragraph.\n\nNext fragment.\n\n"+
			linktext.SectionRule+"\n", doc)
	})

	t.Run("isolates a failing URL", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{
			"https://a.example": page("Alpha paragraph that is long enough to keep."),
			"https://c.example": page("Charlie paragraph that is long enough to keep."),
		})}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example", "https://b.example", "https://c.example"})

		require.NoError(t, err)
		got := sections(doc)
		require.Len(t, got, 3)
		assert.NotContains(t, got[0], "Failed to scrape")
		assert.Contains(t, got[1], "Failed to scrape https://b.example: HTTP 404 for https://b.example")
		assert.NotContains(t, got[2], "Failed to scrape")
		assert.Contains(t, got[2], "Charlie paragraph")
	})

	t.Run("isolates extractor failures and panics", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{
			"https://a.example": "parse-error",
			"https://b.example": "panic",
			"https://c.example": "fine",
		})}
		extractor := &mock.Extractor{ExtractFn: func(html string) ([]string, error) {
			switch html {
			case "parse-error":
				return nil, linktext.Errorf(linktext.EPARSE, "failed to parse HTML: bad bytes")
			case "panic":
				panic("extractor exploded")
			}
			return []string{"fine content"}, nil
		}}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: extractor}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example", "https://b.example", "https://c.example"})

		require.NoError(t, err)
		got := sections(doc)
		require.Len(t, got, 3)
		assert.Contains(t, got[0], "Failed to scrape https://a.example: failed to parse HTML: bad bytes")
		assert.Contains(t, got[1], "Failed to scrape https://b.example: unexpected failure: extractor exploded")
		assert.Contains(t, got[2], "fine content")
	})

	t.Run("processes duplicate URLs independently", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := &scrape.Session{Fetcher: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
			calls.Add(1)
			return page("Repeated paragraph that is long enough to keep."), nil
		}}}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example", "https://a.example"})

		require.NoError(t, err)
		assert.Len(t, sections(doc), 2)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("drops short fragments", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("meaningful ", 18)
		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{
			"https://a.example": page("Hello", long),
		})}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example"})

		require.NoError(t, err)
		assert.NotContains(t, doc, "Hello")
		assert.Contains(t, doc, strings.TrimSpace(long))
	})

	t.Run("truncates to max length with marker", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var links []string
		for i := range 10 {
			url := fmt.Sprintf("https://site%d.example", i)
			pages[url] = page(strings.Repeat("lorem ipsum dolor ", 50))
			links = append(links, url)
		}
		s := &scrape.Session{Fetcher: pagesFetcher(pages)}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor(), MaxLength: 2000}

		doc, err := a.Scrape(context.Background(), links)

		require.NoError(t, err)
		assert.LessOrEqual(t, utf8.RuneCountInString(doc), 2000)
		assert.True(t, strings.HasSuffix(doc, linktext.TruncationMarker))
	})

	t.Run("closes session even when every URL fails", func(t *testing.T) {
		t.Parallel()

		closed := 0
		s := &scrape.Session{Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "", errors.New("down") },
			CloseFn: func() error { closed++; return nil },
		}}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example", "https://b.example"})

		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(doc, "Failed to scrape"))
		assert.Equal(t, 1, closed)
	})

	t.Run("reports session release failure as pipeline error", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return page("Some paragraph that is long enough."), nil },
			CloseFn: func() error { return errors.New("leaked connection") },
		}}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://a.example"})

		require.Error(t, err)
		assert.Empty(t, doc)
		assert.Equal(t, linktext.EINTERNAL, linktext.ErrorCode(err))
		assert.Contains(t, linktext.ErrorMessage(err), "leaked connection")
	})

	t.Run("propagates session open failure", func(t *testing.T) {
		t.Parallel()

		a := &scrape.Aggregator{Open: func(context.Context) (*scrape.Session, error) {
			return nil, linktext.Errorf(linktext.EUNAVAILABLE, "no browser")
		}}

		_, err := a.Scrape(context.Background(), []string{"https://a.example"})

		require.Error(t, err)
		assert.Equal(t, linktext.EUNAVAILABLE, linktext.ErrorCode(err))
	})

	t.Run("renders empty static pages when asked", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{
			Fetcher:  staticFetcher(`<div id="root"></div>`),
			Renderer: staticFetcher(page("Rendered paragraph that only exists after scripts run.")),
		}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor(), RenderOnEmpty: true}

		doc, err := a.Scrape(context.Background(), []string{"https://spa.example"})

		require.NoError(t, err)
		assert.Contains(t, doc, "Rendered paragraph that only exists after scripts run.")
	})

	t.Run("keeps empty static pages by default", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Session{
			Fetcher: staticFetcher(`<div id="root"></div>`),
			Renderer: &mock.Fetcher{FetchFn: func(context.Context, string) (string, error) {
				t.Fatal("renderer must not be called")
				return "", nil
			}},
		}
		a := &scrape.Aggregator{Open: sessionOf(s), Extractor: goquery.NewExtractor()}

		doc, err := a.Scrape(context.Background(), []string{"https://spa.example"})

		require.NoError(t, err)
		assert.Equal(t, "Source: https://spa.example\n\n\n\n"+linktext.SectionRule+"\n", doc)
	})

	t.Run("reports progress for every URL", func(t *testing.T) {
		t.Parallel()

		var events []scrape.ProgressEvent
		s := &scrape.Session{Fetcher: pagesFetcher(map[string]string{"https://a.example": page("x")})}
		a := &scrape.Aggregator{
			Open:      sessionOf(s),
			Extractor: goquery.NewExtractor(),
			Progress:  func(e scrape.ProgressEvent) { events = append(events, e) },
		}

		_, err := a.Scrape(context.Background(), []string{"https://a.example", "https://b.example"})

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, 1, events[0].Completed)
		assert.NoError(t, events[0].Error)
		assert.Equal(t, 2, events[1].Completed)
		assert.Equal(t, 2, events[1].Total)
		assert.Error(t, events[1].Error)
	})
}

func TestAggregator_Scrape_ConcurrentMatchesSequential(t *testing.T) {
	t.Parallel()

	pages := map[string]string{}
	var links []string
	for i := range 12 {
		url := fmt.Sprintf("https://site%d.example", i)
		if i%4 != 1 {
			pages[url] = page(fmt.Sprintf("Paragraph number %d that is long enough to keep.", i))
		}
		links = append(links, url)
	}
	// Later URLs finish first so completion order differs from input order.
	fetcher := &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (string, error) {
		var n int
		_, _ = fmt.Sscanf(url, "https://site%d.example", &n)
		time.Sleep(time.Duration(12-n) * 2 * time.Millisecond)
		return pagesFetcher(pages).Fetch(ctx, url)
	}}

	sequential := &scrape.Aggregator{Open: sessionOf(&scrape.Session{Fetcher: fetcher}), Extractor: goquery.NewExtractor()}
	concurrent := &scrape.Aggregator{Open: sessionOf(&scrape.Session{Fetcher: fetcher}), Extractor: goquery.NewExtractor(), Concurrency: 4}

	want, err := sequential.Scrape(context.Background(), links)
	require.NoError(t, err)
	got, err := concurrent.Scrape(context.Background(), links)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Len(t, sections(got), 12)
}

func TestAggregator_Scrape_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/article":
			_, _ = w.Write([]byte(`<html><body>
<nav><a href="/">Home</a> <li>Navigation item that should never show up</li></nav>
<article>
<h1>A headline that is long enough to survive</h1>
<p>First   paragraph
with a line break inside that gets collapsed.</p>
<p>Tiny</p>
</article>
<footer><p>Copyright notice that should never show up in output</p></footer>
</body></html>`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(page("Too late paragraph that never arrives in time.")))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a := &scrape.Aggregator{
		Open: func(context.Context) (*scrape.Session, error) {
			return &scrape.Session{
				Fetcher:      lthttp.NewFetcher(lthttp.WithHTTPClient(srv.Client())),
				FetchTimeout: 50 * time.Millisecond,
			}, nil
		},
		Extractor: goquery.NewExtractor(),
	}

	doc, err := a.Scrape(context.Background(), []string{srv.URL + "/article", srv.URL + "/slow", srv.URL + "/missing"})

	require.NoError(t, err)
	got := sections(doc)
	require.Len(t, got, 3)
	assert.Equal(t, "Source: "+srv.URL+"/article\n\n"+
		"A headline that is long enough to survive\n\n"+
		"First paragraph with a line break inside that gets collapsed.\n\n", got[0])
	assert.Contains(t, got[1], "Failed to scrape "+srv.URL+"/slow: ")
	assert.Contains(t, got[2], "Failed to scrape "+srv.URL+"/missing: HTTP 404")
	assert.NotContains(t, doc, "should never show up")
}
