package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"InstaCatalog/bot/whatsapp"
	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/instagram"
)

var greetings = []string{"hi", "hello", "hey", "start", "namaste"}

// HandleMessage answers one inbound WhatsApp text.
func (c *Core) HandleMessage(ctx context.Context, msg entity.InboundMessage) {
	if c.messenger != nil && msg.ID != "" {
		if err := c.messenger.MarkRead(ctx, msg.ID); err != nil {
			c.log.With(sl.Err(err)).Debug("mark read")
		}
	}

	text := strings.ToLower(strings.TrimSpace(msg.Text))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	c.log.With(
		slog.String("from", msg.From),
		slog.String("text", text),
	).Debug("inbound message")

	if username, ok := instagram.FindUsername(msg.Text); ok {
		c.requestFromChat(ctx, msg.From, username)
		return
	}

	switch {
	case hasWord(words, "status"):
		c.reply(msg.From, c.statusReply(ctx, msg.From))
	case hasWord(words, greetings...):
		c.reply(msg.From, whatsapp.MsgWelcome)
	case hasWord(words, "help"):
		c.reply(msg.From, whatsapp.MsgAskForURL)
	default:
		if !strings.ContainsAny(text, " \t\n") {
			if username, err := instagram.ValidateUsername(text); err == nil {
				c.requestFromChat(ctx, msg.From, username)
				return
			}
		}
		c.reply(msg.From, whatsapp.MsgHelp)
	}
}

func (c *Core) requestFromChat(ctx context.Context, from, username string) {
	record, err := c.RequestCatalog(ctx, username, from)
	switch {
	case err == nil:
		c.reply(from, whatsapp.MsgProcessing(record.Username))
	case errors.Is(err, ErrAlreadyProcessing):
		c.reply(from, whatsapp.MsgAlreadyProcessing(record.Username, string(record.Status)))
	case errors.Is(err, ErrInvalidUsername):
		c.reply(from, whatsapp.MsgInvalidURL)
	case errors.Is(err, ErrQueueFull), errors.Is(err, ErrStopped):
		c.reply(from, whatsapp.MsgQueueFull)
	default:
		c.log.With(sl.Err(err), slog.String("username", username)).Error("request catalog")
		c.reply(from, whatsapp.MsgFailed(username))
	}
}

func (c *Core) statusReply(ctx context.Context, from string) string {
	c.mu.Lock()
	username, ok := c.lastRequest[from]
	c.mu.Unlock()
	if !ok {
		return whatsapp.MsgNoRequest
	}

	record, err := c.Status(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.With(sl.Err(err), slog.String("username", username)).Error("get status")
		}
		return whatsapp.MsgNoRequest
	}
	message := record.Message
	if record.Status == entity.StatusCompleted && c.builder != nil {
		message = strings.TrimSpace(message + "\n🔗 " + c.builder.SiteURL(username))
	}
	return whatsapp.MsgStatus(username, string(record.Status), message, record.UpdatedAt)
}

func hasWord(words []string, targets ...string) bool {
	for _, w := range words {
		for _, t := range targets {
			if w == t {
				return true
			}
		}
	}
	return false
}
