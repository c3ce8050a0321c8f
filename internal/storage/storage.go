package storage

import (
	"context"
	"time"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
)

// Storage persists QR codes. Lookups return (nil, nil) when the record
// does not exist; callers translate that to their own not-found error.
type Storage interface {
	Create(ctx context.Context, qr *models.QRCode) error
	GetByID(ctx context.Context, id string) (*models.QRCode, error)
	Update(ctx context.Context, qr *models.QRCode) error
	ReplaceContent(ctx context.Context, id string, c content.Content) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	List(ctx context.Context, params models.ListParams) ([]*models.QRCode, int64, error)
	IncrementScans(ctx context.Context, id string, day time.Time) error
	Stats(ctx context.Context) (*models.Stats, error)
}
