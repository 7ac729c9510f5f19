package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// alertBuffer bounds the alerts waiting for delivery; extra ones are dropped.
const alertBuffer = 32

// Notifier delivers a plain text alert, usually to an admin chat.
type Notifier interface {
	SendMessage(msg string)
}

// TelegramHandler forwards records at or above minLevel to a Notifier and
// always passes them on to the wrapped handler.
type TelegramHandler struct {
	next     slog.Handler
	notifier Notifier
	minLevel slog.Level
	attrs    []slog.Attr
	alerts   *alertQueue
}

// alertQueue is shared by a handler and its With/WithGroup copies.
type alertQueue struct {
	ch      chan string
	dropped atomic.Int64
}

func newAlertQueue(notifier Notifier, size int) *alertQueue {
	q := &alertQueue{ch: make(chan string, size)}
	go func() {
		for msg := range q.ch {
			notifier.SendMessage(msg)
		}
	}()
	return q
}

func (q *alertQueue) push(msg string) {
	select {
	case q.ch <- msg:
	default:
		q.dropped.Add(1)
	}
}

func SetupTelegramHandler(log *slog.Logger, notifier Notifier, minLevel slog.Level) *slog.Logger {
	if notifier == nil {
		return log
	}
	return slog.New(&TelegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		minLevel: minLevel,
		alerts:   newAlertQueue(notifier, alertBuffer),
	})
}

// Dropped reports how many alerts were discarded because delivery fell behind.
func (h *TelegramHandler) Dropped() int64 {
	return h.alerts.dropped.Load()
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level) || level >= h.minLevel
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		h.alerts.push(h.format(r))
	}
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TelegramHandler{
		next:     h.next.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    merged,
		alerts:   h.alerts,
	}
}

// WithGroup keeps the alert text flat; only the wrapped handler groups.
func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		next:     h.next.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    h.attrs,
		alerts:   h.alerts,
	}
}

func (h *TelegramHandler) format(r slog.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", r.Level.String(), r.Message))
	for _, a := range h.attrs {
		sb.WriteString(fmt.Sprintf("\n%s: %s", a.Key, a.Value.String()))
	}
	r.Attrs(func(a slog.Attr) bool {
		sb.WriteString(fmt.Sprintf("\n%s: %s", a.Key, a.Value.String()))
		return true
	})
	return sb.String()
}
