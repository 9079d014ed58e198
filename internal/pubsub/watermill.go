package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Reserved metadata keys carrying Message.Topic and Message.UserID. They are
// stripped from Metadata again on delivery.
const (
	metaKeyRecipient = "recipient"
	metaKeyTopic     = "topic"
)

// WatermillBridge is the in-process bus between login forms and the
// /login/events streams. Every subscriber of a topic sees every message, so
// each stream filters on the recipient itself.
type WatermillBridge struct {
	channel *gochannel.GoChannel
}

// NewWatermillBridge creates a bridge whose watermill logs go through slog.
func NewWatermillBridge() *WatermillBridge {
	return &WatermillBridge{
		channel: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			slogAdapter{logger: slog.Default().With("component", "pubsub")},
		),
	}
}

func encode(msg Message) *message.Message {
	out := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		out.Metadata.Set(k, v)
	}
	out.Metadata.Set(metaKeyTopic, msg.Topic)
	out.Metadata.Set(metaKeyRecipient, msg.UserID)
	return out
}

func decode(in *message.Message) Message {
	msg := Message{
		Topic:    in.Metadata.Get(metaKeyTopic),
		UserID:   in.Metadata.Get(metaKeyRecipient),
		Payload:  in.Payload,
		Metadata: make(map[string]string, len(in.Metadata)),
	}
	for k, v := range in.Metadata {
		if k == metaKeyTopic || k == metaKeyRecipient {
			continue
		}
		msg.Metadata[k] = v
	}
	return msg
}

// Publish implements Publisher.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	out := encode(msg)
	out.SetContext(ctx)
	return wb.channel.Publish(msg.Topic, out)
}

// Subscribe implements Subscriber. It returns once the subscription is
// registered, so a publish that follows it is never missed; handler runs on
// a background goroutine until ctx is done.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for in := range messages {
			// No redelivery: a notice that failed once is stale anyway.
			if err := handler(ctx, decode(in)); err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", in.UUID, "error", err)
			}
			in.Ack()
		}
		slog.Debug("Subscription ended", "topic", topic)
	}()
	return nil
}

// Close stops all subscriptions.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}

// slogAdapter routes watermill's internal logging to slog. Trace is logged
// at debug level.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), "error", err)...)
}

func (a slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, attrs(fields)...)
}

func (a slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
