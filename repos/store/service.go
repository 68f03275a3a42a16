package store

import (
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

// Service is the persistence gateway over the four Firestore collections.
type Service struct {
	Client *firestore.Client
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewService creates a gateway around an open Firestore client.
func NewService(client *firestore.Client, logger *slog.Logger) *Service {
	return &Service{
		Client: client,
		logger: logger,
		tracer: otel.Tracer("github.com/mroc/live-display/repos/store"),
		now:    time.Now,
	}
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func decodeDoc[T any](doc *firestore.DocumentSnapshot) (*T, error) {
	var v T
	if err := doc.DataTo(&v); err != nil {
		// We control every document written to these collections, so a
		// failed conversion means the stored shape drifted from the struct.
		return nil, xerrors.Errorf(
			"consistency error. Converting %s to %T failed: %w",
			doc.Ref.Path,
			v,
			err,
		)
	}
	return &v, nil
}

func docPath(collection, id string) string {
	return fmt.Sprintf("%s/%s", collection, id)
}
