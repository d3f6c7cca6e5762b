package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
)

// Writer produces projected cells to a Kafka topic.
// It implements pipeline.SnapshotLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadSnapshot publishes every cell of snap in a single WriteMessages call.
func (w *Writer) LoadSnapshot(ctx context.Context, snap *heatmap.Snapshot) error {
	if snap == nil || len(snap.Cells) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Cells))
	for i := range snap.Cells {
		msg, err := serializeToMessage(snap.Cells[i], snap.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write cells: %w", err)
	}
	w.logger.Debug("cells published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// cellKey orders messages by year and month, e.g. "1753-01".
func cellKey(c heatmap.Cell) string {
	return fmt.Sprintf("%04d-%02d", c.Year, c.Month)
}

// serializeToMessage marshals a Cell into a Kafka message.
func serializeToMessage(cell heatmap.Cell, generatedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(cell)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize cell: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(cellKey(cell)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "color", Value: []byte(cell.Color)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
