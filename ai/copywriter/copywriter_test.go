package copywriter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"InstaCatalog/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriter(t *testing.T, answer string, status int) (*Writer, *[]openai.ChatCompletionRequest) {
	t.Helper()
	var requests []openai.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	conf := openai.DefaultConfig("test-key")
	conf.BaseURL = srv.URL + "/v1"
	return NewWithConfig(conf, "", slog.New(slog.DiscardHandler)), &requests
}

func TestTagline(t *testing.T) {
	w, requests := testWriter(t, ` "Plants that make every room breathe." `, http.StatusOK)

	got, err := w.Tagline(context.Background(), &entity.Catalog{
		BusinessName: "The Peace Lily",
		BusinessType: "Plant Nursery",
		Bio:          "Indoor plants",
		Products:     []entity.Product{{Name: "Peace Lily"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants that make every room breathe.", got)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, openai.GPT4oMini, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[1].Content, "Business: The Peace Lily")
	assert.Contains(t, req.Messages[1].Content, "Product: Peace Lily")
}

func TestProductBlurb(t *testing.T) {
	w, requests := testWriter(t, "A calming plant for any corner.", http.StatusOK)

	got, err := w.ProductBlurb(context.Background(), entity.Product{Name: "Peace Lily", Labels: []string{"Houseplant", "Flowerpot"}}, "Plant Nursery")
	require.NoError(t, err)
	assert.Equal(t, "A calming plant for any corner.", got)
	assert.Contains(t, (*requests)[0].Messages[1].Content, "Houseplant, Flowerpot")
}

func TestComplete_Errors(t *testing.T) {
	w, _ := testWriter(t, "", http.StatusTooManyRequests)
	_, err := w.ProductBlurb(context.Background(), entity.Product{Name: "x"}, "General Business")
	assert.Error(t, err)

	w, _ = testWriter(t, "   ", http.StatusOK)
	_, err = w.Tagline(context.Background(), &entity.Catalog{BusinessName: "x"})
	assert.ErrorContains(t, err, "empty answer")
}
