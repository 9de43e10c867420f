package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/linktext"
)

// DefaultSearchEndpoint is the Google Custom Search JSON API endpoint.
const DefaultSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// DefaultSearchResults is the number of links requested per query.
const DefaultSearchResults = 5

// Ensure SearchService implements linktext.Searcher.
var _ linktext.Searcher = (*SearchService)(nil)

// SearchService resolves queries to links via the Google Custom Search API.
type SearchService struct {
	client   *http.Client
	apiKey   string
	engineID string

	// Endpoint and Results may be changed before the first call.
	Endpoint string
	Results  int
}

// NewSearchService creates a new SearchService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSearchService(client *http.Client, apiKey, engineID string) *SearchService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SearchService{
		client:   client,
		apiKey:   apiKey,
		engineID: engineID,
		Endpoint: DefaultSearchEndpoint,
		Results:  DefaultSearchResults,
	}
}

type customSearchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// Search returns the result links for query in rank order.
// Returns an empty slice (not nil) when the query has no results.
func (s *SearchService) Search(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, linktext.Errorf(linktext.EINVALID, "search query required")
	}
	if s.apiKey == "" || s.engineID == "" {
		return nil, linktext.Errorf(linktext.EUNAVAILABLE, "Google API credentials not configured")
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(s.Results))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, linktext.Errorf(linktext.EUNAVAILABLE, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, linktext.Errorf(linktext.EUNAVAILABLE, "Google API error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result customSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, linktext.Errorf(linktext.EINTERNAL, "decoding search response: %v", err)
	}

	links := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link != "" {
			links = append(links, item.Link)
		}
	}
	return links, nil
}
