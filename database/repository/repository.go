package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by every repository when the addressed document does not exist.
var ErrNotFound = errors.New("document not found")

// OpTimeout bounds a single store round-trip.
const OpTimeout = 5 * time.Second

// WithTimeout derives a per-operation context. Session values on ctx are preserved.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, OpTimeout)
}

// TranslateNotFound maps the driver's no-documents error onto ErrNotFound.
func TranslateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
