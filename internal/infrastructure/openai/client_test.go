package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dreamstay-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	chatBody  map[string]interface{}
	imageBody map[string]interface{}
	chatResp  string
	imageResp string
	status    int
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.chatBody))
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(f.chatResp))
	})
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.imageBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.imageResp))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
}

func TestComplete_JSONMode(t *testing.T) {
	api := &fakeAPI{chatResp: `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"title\":\"Sky Loft\"}"},"finish_reason":"stop"}]}`}
	c := newTestClient(api.server(t))

	out, err := c.Complete(context.Background(), domain.CompletionRequest{
		SystemPrompt: "sys", Prompt: "user", JSONMode: true, Temperature: 0.7, MaxTokens: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Sky Loft"}`, out)

	assert.Equal(t, "gpt-4o-mini", api.chatBody["model"])
	assert.Equal(t, 500.0, api.chatBody["max_tokens"])
	format, ok := api.chatBody["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
	msgs, ok := api.chatBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
}

func TestComplete_NoChoices(t *testing.T) {
	api := &fakeAPI{chatResp: `{"id":"c1","object":"chat.completion","choices":[]}`}
	out, err := newTestClient(api.server(t)).Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComplete_APIError(t *testing.T) {
	api := &fakeAPI{status: http.StatusInternalServerError}
	_, err := newTestClient(api.server(t)).Complete(context.Background(), domain.CompletionRequest{Prompt: "p"})
	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "text", ue.Service)
}

func TestGenerateImage(t *testing.T) {
	api := &fakeAPI{imageResp: `{"created":1,"data":[{"url":"https://cdn.example/a.png"}]}`}
	c := newTestClient(api.server(t))

	imgs, err := c.GenerateImage(context.Background(), domain.ImageRequest{Prompt: "a loft", Size: "256x256"})
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://cdn.example/a.png", imgs[0].URL)

	assert.Equal(t, "dall-e-2", api.imageBody["model"])
	assert.Equal(t, "256x256", api.imageBody["size"])
	assert.Equal(t, "url", api.imageBody["response_format"])
	assert.Equal(t, "a loft", api.imageBody["prompt"])
}

func TestGenerateImage_NoURL(t *testing.T) {
	api := &fakeAPI{imageResp: `{"created":1,"data":[{"b64_json":"aGk="}]}`}
	imgs, err := newTestClient(api.server(t)).GenerateImage(context.Background(), domain.ImageRequest{Prompt: "p", Size: "256x256"})
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Empty(t, imgs[0].URL)
}
