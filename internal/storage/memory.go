package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
)

// MemoryStorage backs tests and local development without Postgres.
type MemoryStorage struct {
	mu    sync.RWMutex
	qrs   map[string]*models.QRCode
	daily map[string]int64 // "2006-01-02" -> scans across all codes
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		qrs:   make(map[string]*models.QRCode),
		daily: make(map[string]int64),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, qr *models.QRCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.qrs[qr.ID]; exists {
		return fmt.Errorf("QR code %s already exists", qr.ID)
	}

	clone := *qr
	s.qrs[qr.ID] = &clone
	return nil
}

func (s *MemoryStorage) GetByID(ctx context.Context, id string) (*models.QRCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qr, exists := s.qrs[id]
	if !exists {
		return nil, nil
	}

	clone := *qr
	return &clone, nil
}

func (s *MemoryStorage) Update(ctx context.Context, qr *models.QRCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.qrs[qr.ID]
	if !exists || stored.DeletedAt != nil {
		return fmt.Errorf("QR code %s not found", qr.ID)
	}

	stored.Title = qr.Title
	stored.Description = qr.Description
	stored.IsActive = qr.IsActive
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) ReplaceContent(ctx context.Context, id string, c content.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.qrs[id]
	if !exists || stored.DeletedAt != nil {
		return fmt.Errorf("QR code %s not found", id)
	}

	stored.CurrentContent = c
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.qrs[id]
	if !exists || stored.DeletedAt != nil {
		return fmt.Errorf("QR code %s not found", id)
	}

	now := time.Now()
	stored.DeletedAt = &now
	stored.UpdatedAt = now
	return nil
}

func (s *MemoryStorage) Restore(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.qrs[id]
	if !exists || stored.DeletedAt == nil {
		return fmt.Errorf("QR code %s not found", id)
	}

	stored.DeletedAt = nil
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, params models.ListParams) ([]*models.QRCode, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.QRCode
	for _, qr := range s.qrs {
		switch params.Status {
		case models.StatusAll:
		case models.StatusDeleted:
			if qr.DeletedAt == nil {
				continue
			}
		default:
			if qr.DeletedAt != nil {
				continue
			}
		}
		if params.ContentType != "" && qr.CurrentContent.Kind() != params.ContentType {
			continue
		}
		if params.Search != "" && !matchesSearch(qr, params.Search) {
			continue
		}
		clone := *qr
		matched = append(matched, &clone)
	}

	sortQRs(matched, params.SortBy, params.SortDesc)

	total := int64(len(matched))
	start := (params.Page - 1) * params.PerPage
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + params.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func matchesSearch(qr *models.QRCode, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(qr.Title), search) ||
		strings.Contains(strings.ToLower(qr.Description), search)
}

func sortQRs(qrs []*models.QRCode, sortBy string, desc bool) {
	less := func(a, b *models.QRCode) bool { return a.CreatedAt.Before(b.CreatedAt) }

	switch sortBy {
	case "title":
		less = func(a, b *models.QRCode) bool { return a.Title < b.Title }
	case "scanCount":
		less = func(a, b *models.QRCode) bool { return a.ScanCount < b.ScanCount }
	case "updatedAt":
		less = func(a, b *models.QRCode) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}

	sort.SliceStable(qrs, func(i, j int) bool {
		if desc {
			return less(qrs[j], qrs[i])
		}
		return less(qrs[i], qrs[j])
	})
}

func (s *MemoryStorage) IncrementScans(ctx context.Context, id string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.qrs[id]
	if !exists || stored.DeletedAt != nil {
		return fmt.Errorf("QR code %s not found", id)
	}

	stored.ScanCount++
	s.daily[day.Format("2006-01-02")]++
	return nil
}

func (s *MemoryStorage) Stats(ctx context.Context) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.Stats{ContentTypes: make(map[content.Kind]int64)}
	for _, qr := range s.qrs {
		stats.Total++
		stats.TotalScans += qr.ScanCount
		if qr.DeletedAt != nil {
			stats.Deleted++
			continue
		}
		if qr.IsActive {
			stats.Active++
		}
		stats.ContentTypes[qr.CurrentContent.Kind()]++
	}
	stats.TodayScans = s.daily[time.Now().Format("2006-01-02")]

	return stats, nil
}
