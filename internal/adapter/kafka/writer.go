package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the loader uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes every record of a dataset as one JSON message.
// It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: topic, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load publishes ds in a single WriteMessages call.
func (w *Writer) Load(ctx context.Context, ds domain.Dataset) error {
	msgs, err := Messages(ds)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %s to %s: %w", ds.Kind, w.topic, err)
	}
	w.logger.Debug("dataset published", "dataset", ds.Kind, "topic", w.topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// Indicator is the message body for one scraped labor indicator.
type Indicator struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Messages converts ds into keyed messages. Indicators are emitted in name
// order.
func Messages(ds domain.Dataset) ([]kafkago.Message, error) {
	headers := []kafkago.Header{
		{Key: "dataset", Value: []byte(ds.Kind)},
		{Key: "fetched_at", Value: []byte(ds.FetchedAt.UTC().Format(time.RFC3339))},
	}
	var msgs []kafkago.Message
	add := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("serialize %s record %s: %w", ds.Kind, key, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:     []byte(string(ds.Kind) + ":" + key),
			Value:   data,
			Headers: headers,
		})
		return nil
	}

	var err error
	switch ds.Kind {
	case domain.KindWarnings:
		for _, r := range ds.Warnings {
			if err = add(strconv.Itoa(r.Year), r); err != nil {
				break
			}
		}
	case domain.KindLabor:
		for _, r := range ds.Labor {
			if err = add(r.Month.Format(domain.MonthLayout), r); err != nil {
				break
			}
		}
	case domain.KindTides:
		for _, r := range ds.Tides {
			if err = add(r.Time.UTC().Format(time.RFC3339), r); err != nil {
				break
			}
		}
	case domain.KindIndicators:
		for _, name := range slices.Sorted(maps.Keys(ds.Indicators)) {
			if err = add(name, Indicator{Name: name, Value: ds.Indicators[name]}); err != nil {
				break
			}
		}
	default:
		return nil, fmt.Errorf("unknown dataset kind %q", ds.Kind)
	}
	return msgs, err
}
