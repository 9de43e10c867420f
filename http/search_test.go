package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/linktext"
	lthttp "github.com/fwojciec/linktext/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns links in rank order", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "key-1", r.URL.Query().Get("key"))
			assert.Equal(t, "cx-1", r.URL.Query().Get("cx"))
			assert.Equal(t, "golang errgroup", r.URL.Query().Get("q"))
			assert.Equal(t, "5", r.URL.Query().Get("num"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"link":"https://a.example"},{"link":"https://b.example"}]}`))
		}))
		defer srv.Close()

		svc := lthttp.NewSearchService(srv.Client(), "key-1", "cx-1")
		svc.Endpoint = srv.URL

		links, err := svc.Search(context.Background(), "golang errgroup")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, links)
	})

	t.Run("returns empty slice without items", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		svc := lthttp.NewSearchService(srv.Client(), "key", "cx")
		svc.Endpoint = srv.URL

		links, err := svc.Search(context.Background(), "nothing")

		require.NoError(t, err)
		assert.NotNil(t, links)
		assert.Empty(t, links)
	})

	t.Run("reports upstream errors as unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`quota exceeded`))
		}))
		defer srv.Close()

		svc := lthttp.NewSearchService(srv.Client(), "key", "cx")
		svc.Endpoint = srv.URL

		_, err := svc.Search(context.Background(), "query")

		require.Error(t, err)
		assert.Equal(t, linktext.EUNAVAILABLE, linktext.ErrorCode(err))
		assert.Contains(t, linktext.ErrorMessage(err), "quota exceeded")
	})

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		svc := lthttp.NewSearchService(nil, "", "")

		_, err := svc.Search(context.Background(), "query")

		require.Error(t, err)
		assert.Equal(t, linktext.EUNAVAILABLE, linktext.ErrorCode(err))
	})

	t.Run("requires query", func(t *testing.T) {
		t.Parallel()

		svc := lthttp.NewSearchService(nil, "key", "cx")

		_, err := svc.Search(context.Background(), "   ")

		require.Error(t, err)
		assert.Equal(t, linktext.EINVALID, linktext.ErrorCode(err))
	})
}
