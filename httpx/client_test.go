package httpx_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbolis/museum-survey/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *httpx.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := httpx.NewClient(srv.URL+"/api", 0)
	require.NoError(t, err)
	return client
}

func TestClientGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/survey/3", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(httpx.RequestIDHeader))
		w.Header().Set("content-type", "application/json")
		io.WriteString(w, `{"id":3,"name":"Feedback"}`)
	})

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	err := client.Get(context.Background(), "survey/3", &out)

	require.NoError(t, err)
	assert.Equal(t, 3, out.ID)
	assert.Equal(t, "Feedback", out.Name)
}

func TestClientPost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/survey-fulfillment/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"survey":3}`, string(body))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":8}`)
	})

	var out struct {
		ID int `json:"id"`
	}
	err := client.Post(context.Background(), "/survey-fulfillment/", map[string]int{"survey": 3}, &out)

	require.NoError(t, err)
	assert.Equal(t, 8, out.ID)
}

func TestClientEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	assert.NoError(t, client.Post(context.Background(), "x", nil, &out))
	assert.Nil(t, out)
}

func TestClientStatusError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
		detail   string
	}{
		{"recognised 404", http.StatusNotFound, `{"detail":"Not found."}`, true, "Not found."},
		{"bare 404", http.StatusNotFound, `404 page not found`, false, ""},
		{"404 other json", http.StatusNotFound, `{"error":"nope"}`, false, ""},
		{"500", http.StatusInternalServerError, `{"detail":"Internal Server Error"}`, false, "Internal Server Error"},
		{"400", http.StatusBadRequest, ``, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := client.Get(context.Background(), "survey/1", nil)

			var se *httpx.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.notFound, httpx.IsNotFound(err))
			if tt.detail != "" {
				require.NotNil(t, se.Payload)
				assert.Equal(t, tt.detail, se.Payload.Detail)
			} else {
				assert.Nil(t, se.Payload)
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := httpx.NewClient(srv.URL, 0)
	require.NoError(t, err)
	srv.Close()

	err = client.Get(context.Background(), "survey/1", nil)

	require.Error(t, err)
	assert.False(t, httpx.IsNotFound(err))
}

func TestClientDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":`)
	})

	var out map[string]any
	assert.Error(t, client.Get(context.Background(), "survey/1", &out))
}
