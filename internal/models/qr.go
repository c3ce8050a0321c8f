package models

import (
	"time"

	"github.com/davronov/qrdesk/internal/content"
)

// QRCode is a stable scan URL with replaceable content. The code itself
// never changes once printed; only the content it resolves to does.
type QRCode struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	IsActive       bool            `json:"isActive"`
	ScanCount      int64           `json:"scanCount"`
	CurrentContent content.Content `json:"currentContent"`
	ScanURL        string          `json:"scanUrl,omitempty"`
	PreviewURL     string          `json:"previewUrl,omitempty"`
	QRImageURL     string          `json:"qrImageUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

type CreateQRRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type UpdateQRRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// QRResponse is the wrapped single-record shape.
type QRResponse struct {
	Success bool   `json:"success"`
	QR      QRCode `json:"qr"`
}

// List status filter values.
const (
	StatusAll     = "all"
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// ListParams filters and orders the dashboard list. Status selects
// against soft deletion: "active" (default) hides deleted codes,
// "deleted" shows only them, "all" shows both.
type ListParams struct {
	Search      string
	ContentType content.Kind
	Status      string
	SortBy      string
	SortDesc    bool
	Page        int
	PerPage     int
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ListQRsResponse struct {
	QRs        []QRCode   `json:"qrs"`
	Pagination Pagination `json:"pagination"`
}

// Stats backs the analytics screen.
type Stats struct {
	Total        int64                 `json:"total"`
	Active       int64                 `json:"active"`
	Deleted      int64                 `json:"deleted"`
	TotalScans   int64                 `json:"totalScans"`
	TodayScans   int64                 `json:"todayScans"`
	ContentTypes map[content.Kind]int64 `json:"contentTypes"`
}

type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	User      string    `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
