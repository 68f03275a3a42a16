package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/samborkent/uuidv7"
	"golang.org/x/xerrors"
)

// AppendWebhook records an inbound notification. Documents get time-ordered
// ids and are never updated or read back.
func (s *Service) AppendWebhook(ctx context.Context, kind string, raw json.RawMessage) error {
	var data any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return xerrors.Errorf("decode %s payload for audit: %w", kind, err)
		}
	}

	id := uuidv7.New().String()
	_, err := s.Client.Collection(WebhooksCollection).Doc(id).Set(ctx, WebhookLog{
		Type:      kind,
		Data:      data,
		Timestamp: s.now(),
		Processed: true,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to log webhook notification", slog.String("type", kind), slog.Any("error", err))
		return persistenceError("append "+docPath(WebhooksCollection, id), err)
	}
	return nil
}
