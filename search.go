package linktext

import "context"

// Searcher resolves a free-text query to a ranked list of URLs.
type Searcher interface {
	// Search returns result links in rank order.
	// Returns EINVALID if query is blank.
	Search(ctx context.Context, query string) ([]string, error)
}
