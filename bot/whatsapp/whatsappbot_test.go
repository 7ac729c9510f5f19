package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"InstaCatalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textPayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "15550001111", "phone_number_id": "PN1"},
        "contacts": [{"profile": {"name": "Asha"}, "wa_id": "919876543210"}],
        "messages": [
          {"from": "919876543210", "id": "wamid.1", "timestamp": "1700000000", "type": "text", "text": {"body": "instagram.com/thepeacelily.in"}},
          {"from": "919876543210", "id": "wamid.2", "timestamp": "1700000001", "type": "image"}
        ]
      }
    }, {
      "field": "statuses",
      "value": {"messages": [{"from": "x", "id": "wamid.3", "type": "text", "text": {"body": "ignored"}}]}
    }]
  }]
}`

type recordingHandler struct {
	mu   sync.Mutex
	msgs []entity.InboundMessage
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg entity.InboundMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
}

func (h *recordingHandler) received() []entity.InboundMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entity.InboundMessage(nil), h.msgs...)
}

func testBot(conf Config) *WhatsAppBot {
	return NewWhatsAppBot(conf, slog.New(slog.DiscardHandler))
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestHandleWebhookVerification(t *testing.T) {
	bot := testBot(Config{VerifyToken: "secret"})

	rec := httptest.NewRecorder()
	bot.HandleWebhookVerification(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())

	for _, q := range []string{
		"hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1",
		"hub.mode=unsubscribe&hub.verify_token=secret&hub.challenge=1",
		"hub.challenge=1",
	} {
		rec = httptest.NewRecorder()
		bot.HandleWebhookVerification(rec, httptest.NewRequest(http.MethodGet, "/webhook?"+q, nil))
		assert.Equal(t, http.StatusForbidden, rec.Code, q)
	}
}

func TestHandleWebhook_DispatchesTextMessages(t *testing.T) {
	bot := testBot(Config{})
	handler := &recordingHandler{}
	bot.SetMessageHandler(handler)

	rec := httptest.NewRecorder()
	bot.HandleWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textPayload)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

	require.Eventually(t, func() bool { return len(handler.received()) == 1 }, time.Second, 10*time.Millisecond)
	msg := handler.received()[0]
	assert.Equal(t, "919876543210", msg.From)
	assert.Equal(t, "Asha", msg.Name)
	assert.Equal(t, "wamid.1", msg.ID)
	assert.Equal(t, "instagram.com/thepeacelily.in", msg.Text)
}

func TestHandleWebhook_MalformedBodyStillAcknowledged(t *testing.T) {
	bot := testBot(Config{})
	rec := httptest.NewRecorder()
	bot.HandleWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())
}

func TestHandleWebhook_Signature(t *testing.T) {
	bot := testBot(Config{AppSecret: "app-secret"})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textPayload))
	req.Header.Set("X-Hub-Signature-256", sign("app-secret", textPayload))
	rec := httptest.NewRecorder()
	bot.HandleWebhook(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, sig := range []string{"", "sha256=", sign("other", textPayload), "md5=abc"} {
		req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textPayload))
		req.Header.Set("X-Hub-Signature-256", sig)
		rec = httptest.NewRecorder()
		bot.HandleWebhook(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, sig)
	}
}

func TestSendMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v22.0/PN1/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.out"}]}`))
	}))
	defer srv.Close()

	bot := testBot(Config{AccessToken: "token", PhoneNumberID: "PN1", GraphURL: srv.URL + "/"})
	require.NoError(t, bot.SendMessage(context.Background(), "919876543210", "hello"))

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "919876543210", got["to"])
	assert.Equal(t, "text", got["type"])
	text := got["text"].(map[string]any)
	assert.Equal(t, "hello", text["body"])
	assert.Equal(t, true, text["preview_url"])
}

func TestSendMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	bot := testBot(Config{PhoneNumberID: "PN1", GraphURL: srv.URL})
	err := bot.SendMessage(context.Background(), "1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestMarkRead(t *testing.T) {
	var got readReceipt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	bot := testBot(Config{PhoneNumberID: "PN1", GraphURL: srv.URL, ApiVersion: "v21.0"})
	require.NoError(t, bot.MarkRead(context.Background(), "wamid.1"))
	assert.Equal(t, readReceipt{MessagingProduct: "whatsapp", Status: "read", MessageID: "wamid.1"}, got)
}

func TestMessages(t *testing.T) {
	assert.Contains(t, MsgCompleted("The Peace Lily", 4, "https://x/catalog/p"), "📦 Products: 4")
	assert.Contains(t, MsgProcessing("shop"), "@shop")
	assert.Contains(t, MsgStatus("shop", "scraping", "", time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)), "2 Jan 03:04 UTC")
}
