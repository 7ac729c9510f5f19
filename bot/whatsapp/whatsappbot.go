package whatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"

	"github.com/go-chi/render"
)

const handleTimeout = 30 * time.Second

type Config struct {
	AccessToken   string
	VerifyToken   string
	AppSecret     string
	PhoneNumberID string
	GraphURL      string
	ApiVersion    string
}

// MessageHandler receives every inbound text message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg entity.InboundMessage)
}

// WhatsAppBot talks to the WhatsApp Cloud API
type WhatsAppBot struct {
	log     *slog.Logger
	conf    Config
	client  *http.Client
	handler MessageHandler
}

// WebhookPayload represents the incoming webhook payload from WhatsApp
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Value struct {
				MessagingProduct string `json:"messaging_product"`
				Metadata         struct {
					DisplayPhoneNumber string `json:"display_phone_number"`
					PhoneNumberID      string `json:"phone_number_id"`
				} `json:"metadata"`
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
				} `json:"messages"`
			} `json:"value"`
			Field string `json:"field"`
		} `json:"changes"`
	} `json:"entry"`
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type readReceipt struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

func NewWhatsAppBot(conf Config, log *slog.Logger) *WhatsAppBot {
	if conf.GraphURL == "" {
		conf.GraphURL = "https://graph.facebook.com"
	}
	if conf.ApiVersion == "" {
		conf.ApiVersion = "v22.0"
	}
	conf.GraphURL = strings.TrimRight(conf.GraphURL, "/")

	return &WhatsAppBot{
		log:    log.With(sl.Module("whatsappbot")),
		conf:   conf,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *WhatsAppBot) SetMessageHandler(handler MessageHandler) {
	b.handler = handler
}

// HandleWebhookVerification answers the subscription challenge sent by Meta.
func (b *WhatsAppBot) HandleWebhookVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token != "" && hmac.Equal([]byte(token), []byte(b.conf.VerifyToken)) {
		b.log.Info("webhook verified")
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	b.log.Warn("webhook verification failed",
		slog.String("mode", mode),
		slog.Bool("token_match", token == b.conf.VerifyToken),
	)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleWebhook acknowledges every delivery at once and processes messages in the background.
func (b *WhatsAppBot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.log.Error("failed to read request body", sl.Err(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if b.conf.AppSecret != "" {
		if !b.verifySignature(body, r.Header.Get("X-Hub-Signature-256")) {
			b.log.Warn("invalid webhook signature")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		b.log.Error("failed to parse webhook payload", sl.Err(err), slog.Int("size", len(body)))
	} else {
		go b.processPayload(payload)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "received"})
}

// Messages extracts the text messages from a webhook payload.
func (p *WebhookPayload) Messages() []entity.InboundMessage {
	var out []entity.InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			names := make(map[string]string)
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, m := range change.Value.Messages {
				if m.Type != "text" || m.Text == nil || strings.TrimSpace(m.Text.Body) == "" {
					continue
				}
				out = append(out, entity.InboundMessage{
					ID:   m.ID,
					From: m.From,
					Name: names[m.From],
					Type: m.Type,
					Text: m.Text.Body,
				})
			}
		}
	}
	return out
}

func (b *WhatsAppBot) processPayload(payload WebhookPayload) {
	if payload.Object != "" && payload.Object != "whatsapp_business_account" {
		return
	}
	for _, msg := range payload.Messages() {
		b.log.Info("received message",
			slog.String("from", msg.From),
			slog.String("id", msg.ID),
		)
		if b.handler == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		b.handler.HandleMessage(ctx, msg)
		cancel()
	}
}

// SendMessage sends a text message to the specified recipient
func (b *WhatsAppBot) SendMessage(ctx context.Context, to, text string) error {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	msg.Text.PreviewURL = true
	msg.Text.Body = text

	if err := b.post(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	b.log.Debug("message sent", slog.String("to", to))
	return nil
}

// MarkRead flags an inbound message as read; the blue ticks tell the user we are on it.
func (b *WhatsAppBot) MarkRead(ctx context.Context, messageID string) error {
	if messageID == "" {
		return nil
	}
	return b.post(ctx, readReceipt{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	})
}

func (b *WhatsAppBot) post(ctx context.Context, v any) error {
	jsonBody, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", b.conf.GraphURL, b.conf.ApiVersion, b.conf.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.conf.AccessToken)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// verifySignature checks the X-Hub-Signature-256 header ("sha256=<hex>").
func (b *WhatsAppBot) verifySignature(body []byte, signature string) bool {
	expected, ok := strings.CutPrefix(signature, "sha256=")
	if !ok || expected == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(b.conf.AppSecret))
	mac.Write(body)
	actual := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(actual))
}
