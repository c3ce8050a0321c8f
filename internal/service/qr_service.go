package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/cache"
	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/storage"
)

var (
	ErrNotFound      = errors.New("QR code not found")
	ErrGone          = errors.New("QR code has been deleted")
	ErrInactive      = errors.New("QR code is paused")
	ErrTitleRequired = errors.New("title is required")
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxTitleLen    = 100
)

// QRService owns the lifecycle of a QR code: the printed code and its
// scan URL never change, everything behind them does.
type QRService struct {
	store   storage.Storage
	cache   *cache.RecordCache
	log     logrus.FieldLogger
	baseURL string
}

func NewQRService(store storage.Storage, recordCache *cache.RecordCache, log logrus.FieldLogger, baseURL string) *QRService {
	return &QRService{
		store:   store,
		cache:   recordCache,
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Create registers a code with empty content. Content arrives later
// through ReplaceContent; the code is printable immediately.
func (s *QRService) Create(ctx context.Context, req models.CreateQRRequest) (*models.QRCode, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("title must be at most %d characters", maxTitleLen)
	}

	now := time.Now()
	qr := &models.QRCode{
		ID:             uuid.New().String(),
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		IsActive:       true,
		CurrentContent: content.Empty(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, qr); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"qr_id": qr.ID, "title": qr.Title}).Info("QR code created")
	return s.decorate(qr), nil
}

func (s *QRService) Get(ctx context.Context, id string) (*models.QRCode, error) {
	qr, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, ErrNotFound
	}
	return s.decorate(qr), nil
}

func (s *QRService) Update(ctx context.Context, id string, req models.UpdateQRRequest) (*models.QRCode, error) {
	qr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if qr.DeletedAt != nil {
		return nil, ErrGone
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		qr.Title = title
	}
	if req.Description != nil {
		qr.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		qr.IsActive = *req.IsActive
	}

	if err := s.store.Update(ctx, qr); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	return s.Get(ctx, id)
}

// ReplaceContent swaps the whole payload. A QR code holds exactly one
// variant; there is no merging with what was there before.
func (s *QRService) ReplaceContent(ctx context.Context, id string, c content.Content) (*models.QRCode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	qr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if qr.DeletedAt != nil {
		return nil, ErrGone
	}

	if err := s.store.ReplaceContent(ctx, id, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.log.WithFields(logrus.Fields{"qr_id": id, "content_type": c.Kind()}).Info("content replaced")
	return s.Get(ctx, id)
}

// Delete soft-deletes. Scan count and content survive for Restore.
func (s *QRService) Delete(ctx context.Context, id string) error {
	qr, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if qr.DeletedAt != nil {
		return ErrGone
	}

	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	s.log.WithField("qr_id", id).Info("QR code deleted")
	return nil
}

func (s *QRService) Restore(ctx context.Context, id string) (*models.QRCode, error) {
	qr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if qr.DeletedAt == nil {
		return nil, ErrNotFound
	}

	if err := s.store.Restore(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.log.WithField("qr_id", id).Info("QR code restored")
	return s.Get(ctx, id)
}

func (s *QRService) List(ctx context.Context, params models.ListParams) (*models.ListQRsResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = defaultPerPage
	}
	if params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	qrs, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := &models.ListQRsResponse{
		QRs: make([]models.QRCode, 0, len(qrs)),
		Pagination: models.Pagination{
			Page:       params.Page,
			PerPage:    params.PerPage,
			Total:      total,
			TotalPages: int((total + int64(params.PerPage) - 1) / int64(params.PerPage)),
		},
	}
	for _, qr := range qrs {
		resp.QRs = append(resp.QRs, *s.decorate(qr))
	}

	return resp, nil
}

func (s *QRService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.store.Stats(ctx)
}

// ResolveScan is the hot path behind the printed code: cache first,
// storage on miss, then count the scan. Deleted codes are gone, paused
// codes refuse to resolve.
func (s *QRService) ResolveScan(ctx context.Context, id string) (*models.QRCode, error) {
	qr, found := s.cacheGet(ctx, id)
	if !found {
		stored, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, ErrNotFound
		}
		qr = stored
		s.cacheSet(ctx, qr)
	}

	if qr.DeletedAt != nil {
		return nil, ErrGone
	}
	if !qr.IsActive {
		return nil, ErrInactive
	}

	if err := s.store.IncrementScans(ctx, id, time.Now()); err != nil {
		// The visitor still gets their content; only the counter is off.
		s.log.WithError(err).WithField("qr_id", id).Warn("failed to count scan")
	}

	return s.decorate(qr), nil
}

// Preview resolves content the way a scan would but never counts it.
func (s *QRService) Preview(ctx context.Context, id string) (*models.QRCode, error) {
	qr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if qr.DeletedAt != nil {
		return nil, ErrGone
	}
	return qr, nil
}

func (s *QRService) cacheGet(ctx context.Context, id string) (*models.QRCode, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, id)
}

func (s *QRService) cacheSet(ctx context.Context, qr *models.QRCode) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, qr); err != nil {
		s.log.WithError(err).WithField("qr_id", qr.ID).Warn("failed to cache record")
	}
}

func (s *QRService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.WithError(err).WithField("qr_id", id).Warn("failed to invalidate cache")
	}
}

// decorate fills the URLs derived from the id. They are never stored;
// the base URL can change without touching records.
func (s *QRService) decorate(qr *models.QRCode) *models.QRCode {
	qr.ScanURL = fmt.Sprintf("%s/scan/%s", s.baseURL, qr.ID)
	qr.PreviewURL = fmt.Sprintf("%s/preview/%s", s.baseURL, qr.ID)
	qr.QRImageURL = fmt.Sprintf("%s/qr-image/%s", s.baseURL, qr.ID)
	return qr
}
