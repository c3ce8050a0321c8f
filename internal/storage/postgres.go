package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/database"
	"github.com/davronov/qrdesk/internal/models"
)

type PostgresStorage struct {
	db *database.Manager
}

func NewPostgresStorage(db *database.Manager) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const qrColumns = `id, title, description, is_active, scan_count, content, created_at, updated_at, deleted_at`

func (s *PostgresStorage) Create(ctx context.Context, qr *models.QRCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	contentJSON, err := json.Marshal(qr.CurrentContent)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `
		INSERT INTO qr_codes (id, title, description, is_active, scan_count, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.Write().Exec(ctx, query,
		qr.ID,
		qr.Title,
		qr.Description,
		qr.IsActive,
		qr.ScanCount,
		contentJSON,
		qr.CreatedAt,
		qr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create QR code: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, id string) (*models.QRCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + qrColumns + ` FROM qr_codes WHERE id = $1`

	qr, err := scanQR(s.db.Read().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get QR code: %w", err)
	}

	return qr, nil
}

func (s *PostgresStorage) Update(ctx context.Context, qr *models.QRCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE qr_codes
		SET title = $2,
			description = $3,
			is_active = $4,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	cmdTag, err := s.db.Write().Exec(ctx, query, qr.ID, qr.Title, qr.Description, qr.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update QR code: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("QR code %s not found", qr.ID)
	}

	return nil
}

func (s *PostgresStorage) ReplaceContent(ctx context.Context, id string, c content.Content) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	contentJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `
		UPDATE qr_codes
		SET content = $2,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	cmdTag, err := s.db.Write().Exec(ctx, query, id, contentJSON)
	if err != nil {
		return fmt.Errorf("failed to replace content: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("QR code %s not found", id)
	}

	return nil
}

func (s *PostgresStorage) SoftDelete(ctx context.Context, id string) error {
	return s.setDeleted(ctx, id, true)
}

func (s *PostgresStorage) Restore(ctx context.Context, id string) error {
	return s.setDeleted(ctx, id, false)
}

// setDeleted only moves the record between states; scan_count and
// content survive a delete-restore cycle untouched.
func (s *PostgresStorage) setDeleted(ctx context.Context, id string, deleted bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var query string
	if deleted {
		query = `UPDATE qr_codes SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	} else {
		query = `UPDATE qr_codes SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`
	}

	cmdTag, err := s.db.Write().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to change deleted state: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("QR code %s not found", id)
	}

	return nil
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"scanCount": "scan_count",
}

func (s *PostgresStorage) List(ctx context.Context, params models.ListParams) ([]*models.QRCode, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	where, args := buildListFilter(params)

	var total int64
	countQuery := `SELECT COUNT(*) FROM qr_codes ` + where
	if err := s.db.Read().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count QR codes: %w", err)
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM qr_codes %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		qrColumns, where, column, direction, len(args)+1, len(args)+2,
	)
	args = append(args, params.PerPage, (params.Page-1)*params.PerPage)

	rows, err := s.db.Read().Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list QR codes: %w", err)
	}
	defer rows.Close()

	var qrs []*models.QRCode
	for rows.Next() {
		qr, err := scanQR(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan QR code: %w", err)
		}
		qrs = append(qrs, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read QR codes: %w", err)
	}

	return qrs, total, nil
}

func buildListFilter(params models.ListParams) (string, []any) {
	conditions := []string{}
	args := []any{}

	switch params.Status {
	case models.StatusAll:
	case models.StatusDeleted:
		conditions = append(conditions, "deleted_at IS NOT NULL")
	default:
		conditions = append(conditions, "deleted_at IS NULL")
	}
	if params.ContentType != "" {
		args = append(args, string(params.ContentType))
		conditions = append(conditions, fmt.Sprintf("content->>'type' = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (s *PostgresStorage) IncrementScans(ctx context.Context, id string, day time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE qr_codes
		SET scan_count = scan_count + 1
		WHERE id = $1 AND deleted_at IS NULL
	`

	cmdTag, err := s.db.Write().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment scans: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("QR code %s not found", id)
	}

	daily := `
		INSERT INTO daily_scans (day, qr_id, scans)
		VALUES ($1, $2, 1)
		ON CONFLICT (day, qr_id) DO UPDATE SET scans = daily_scans.scans + 1
	`
	if _, err := s.db.Write().Exec(ctx, daily, day.Format("2006-01-02"), id); err != nil {
		return fmt.Errorf("failed to record daily scan: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stats := &models.Stats{ContentTypes: make(map[content.Kind]int64)}

	totals := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE deleted_at IS NULL AND is_active),
			COUNT(*) FILTER (WHERE deleted_at IS NOT NULL),
			COALESCE(SUM(scan_count), 0)
		FROM qr_codes
	`
	err := s.db.Read().QueryRow(ctx, totals).Scan(&stats.Total, &stats.Active, &stats.Deleted, &stats.TotalScans)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	today := `SELECT COALESCE(SUM(scans), 0) FROM daily_scans WHERE day = CURRENT_DATE`
	if err := s.db.Read().QueryRow(ctx, today).Scan(&stats.TodayScans); err != nil {
		return nil, fmt.Errorf("failed to load today's scans: %w", err)
	}

	byType := `
		SELECT content->>'type', COUNT(*)
		FROM qr_codes
		WHERE deleted_at IS NULL
		GROUP BY content->>'type'
	`
	rows, err := s.db.Read().Query(ctx, byType)
	if err != nil {
		return nil, fmt.Errorf("failed to load content type stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan content type stats: %w", err)
		}
		stats.ContentTypes[content.Kind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read content type stats: %w", err)
	}

	return stats, nil
}

func scanQR(row pgx.Row) (*models.QRCode, error) {
	var qr models.QRCode
	var contentJSON []byte

	err := row.Scan(
		&qr.ID,
		&qr.Title,
		&qr.Description,
		&qr.IsActive,
		&qr.ScanCount,
		&contentJSON,
		&qr.CreatedAt,
		&qr.UpdatedAt,
		&qr.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contentJSON, &qr.CurrentContent); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	return &qr, nil
}
