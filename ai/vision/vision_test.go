package vision

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewWithOptions(context.Background(), 2, slog.New(slog.DiscardHandler),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestAnalyze(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images:annotate", r.URL.Path)

		var req vision.BatchAnnotateImagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Requests, 1) {
			assert.Equal(t, "https://cdn.example.com/p1.jpg", req.Requests[0].Image.Source.ImageUri)
			assert.Len(t, req.Requests[0].Features, 2)
		}

		_, _ = w.Write([]byte(`{"responses":[{
			"labelAnnotations":[
				{"description":"Houseplant","score":0.97},
				{"description":"Flowerpot","score":0.91},
				{"description":"Leaf","score":0.88},
				{"description":"Table","score":0.4}
			],
			"imagePropertiesAnnotation":{"dominantColors":{"colors":[
				{"color":{"red":240,"green":240,"blue":240},"score":0.1},
				{"color":{"red":46,"green":125,"blue":50},"score":0.6}
			]}}
		}]}`))
	})

	res, err := c.Analyze(context.Background(), "https://cdn.example.com/p1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"Houseplant", "Flowerpot"}, res.Labels)
	assert.Equal(t, []string{"#2E7D32", "#F0F0F0"}, res.Colors)
}

func TestAnalyze_ImageError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
	})

	_, err := c.Analyze(context.Background(), "https://cdn.example.com/broken.jpg")
	assert.ErrorContains(t, err, "Bad image data.")
}

func TestNew_NoCredentials(t *testing.T) {
	_, err := New(context.Background(), "", "", 5, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
