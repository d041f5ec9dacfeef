package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolProviderAlwaysReturnsText(t *testing.T) {
	p := NewPoolProvider(nil)
	for i := 0; i < 50; i++ {
		assert.NotEmpty(t, p.Text(context.Background()))
	}
}

func TestPoolProviderCustomPool(t *testing.T) {
	p := NewPoolProvider([]string{"only text"})
	assert.Equal(t, "only text", p.Text(context.Background()))
}

func TestHTTPProvider(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    string // empty means "any pool text"
	}{
		{
			name: "uses fetched quote",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content": "fetched quote text"}`))
			},
			want: "fetched quote text",
		},
		{
			name: "falls back on server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "falls back on malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "falls back on empty content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"content": "   "}`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			p := NewHTTPProvider(srv.URL)
			text := p.Text(context.Background())
			assert.NotEmpty(t, text)
			if tc.want != "" {
				assert.Equal(t, tc.want, text)
			}
		})
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	p := NewHTTPProvider("http://127.0.0.1:1")
	assert.NotEmpty(t, p.Text(context.Background()))
}
