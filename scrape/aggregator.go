package scrape

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/linktext"
	"golang.org/x/sync/errgroup"
)

// SessionFunc opens the fetch session for one scrape invocation.
type SessionFunc func(ctx context.Context) (*Session, error)

// ProgressEvent reports the outcome of one URL.
type ProgressEvent struct {
	URL       string
	Completed int
	Total     int
	Rendered  bool
	Error     error
}

// ProgressFunc is called once per URL as it completes. Calls are serialized.
type ProgressFunc func(ProgressEvent)

// Ensure Aggregator implements linktext.Scraper at compile time.
var _ linktext.Scraper = (*Aggregator)(nil)

// Aggregator scrapes a list of URLs into one aggregate document. Every URL
// gets its own section in input order; a failing URL yields a placeholder
// section and never aborts the batch.
type Aggregator struct {
	// Open acquires the session shared by all URLs of an invocation. The
	// session is closed when the invocation ends, whatever the outcome.
	Open SessionFunc

	Extractor linktext.Extractor

	// MaxLength caps the document in characters. Zero means
	// linktext.DefaultMaxLength; a negative value disables the cap.
	MaxLength int

	// Concurrency is the number of URLs processed at once. Values below 2
	// process URLs strictly sequentially.
	Concurrency int

	// RenderOnEmpty renders pages whose static body yields no fragments,
	// even when the detector did not ask for rendering.
	RenderOnEmpty bool

	Progress ProgressFunc
}

// Scrape implements linktext.Scraper. An empty list returns
// linktext.NoLinksMessage without opening a session.
func (a *Aggregator) Scrape(ctx context.Context, links []string) (doc string, err error) {
	if len(links) == 0 {
		return linktext.NoLinksMessage, nil
	}

	session, err := a.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("opening fetch session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			doc, err = "", linktext.Errorf(linktext.EINTERNAL, "releasing fetch session: %v", cerr)
		}
	}()

	blocks := a.scrapeAll(ctx, session, links)

	return linktext.Aggregate(blocks, a.maxLength()), nil
}

func (a *Aggregator) scrapeAll(ctx context.Context, session *Session, links []string) []*linktext.SourceBlock {
	blocks := make([]*linktext.SourceBlock, len(links))
	report := a.reporter(len(links))

	if a.Concurrency < 2 {
		for i, link := range links {
			blocks[i] = a.processURL(ctx, session, link)
			report(blocks[i])
		}
		return blocks
	}

	var g errgroup.Group
	g.SetLimit(a.Concurrency)
	for i, link := range links {
		g.Go(func() error {
			blocks[i] = a.processURL(ctx, session, link)
			report(blocks[i])
			return nil
		})
	}
	_ = g.Wait()

	return blocks
}

// processURL runs fetch, extract and normalize for one URL. Every error,
// including a panic, is turned into a failed block.
func (a *Aggregator) processURL(ctx context.Context, session *Session, link string) (block *linktext.SourceBlock) {
	block = &linktext.SourceBlock{URL: link}
	defer func() {
		if r := recover(); r != nil {
			block = &linktext.SourceBlock{URL: link, Err: linktext.Errorf(linktext.EINTERNAL, "unexpected failure: %v", r)}
		}
	}()

	doc, err := session.Fetch(ctx, link)
	if err != nil {
		block.Err = err
		return block
	}

	fragments, err := a.Extractor.Extract(doc.HTML)
	if err != nil {
		block.Err = err
		return block
	}

	if len(fragments) == 0 && a.RenderOnEmpty && !doc.Rendered && session.CanRender() {
		if doc, err = session.Render(ctx, link); err != nil {
			block.Err = err
			return block
		}
		if fragments, err = a.Extractor.Extract(doc.HTML); err != nil {
			block.Err = err
			return block
		}
	}

	block.Text = linktext.Normalize(fragments)
	block.Rendered = doc.Rendered
	return block
}

func (a *Aggregator) reporter(total int) func(*linktext.SourceBlock) {
	if a.Progress == nil {
		return func(*linktext.SourceBlock) {}
	}
	var mu sync.Mutex
	completed := 0
	return func(b *linktext.SourceBlock) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		a.Progress(ProgressEvent{
			URL:       b.URL,
			Completed: completed,
			Total:     total,
			Rendered:  b.Rendered,
			Error:     b.Err,
		})
	}
}

func (a *Aggregator) maxLength() int {
	if a.MaxLength == 0 {
		return linktext.DefaultMaxLength
	}
	return a.MaxLength
}
