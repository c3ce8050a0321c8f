package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/models"
)

// ErrMissingID rejects mutations against a record that has no id,
// before anything hits the wire.
var ErrMissingID = errors.New("QR code id is required")

// Client talks to the dashboard API. Every response that carries a QR
// record goes through content.Normalize, so callers only ever see the
// canonical flat Record regardless of which endpoint produced it.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

// ScanURL is derived, never stored: the printed code encodes this and
// nothing else.
func (c *Client) ScanURL(id string) string {
	return c.baseURL + "/scan/" + id
}

func (c *Client) PreviewURL(id string) string {
	return c.baseURL + "/preview/" + id
}

func (c *Client) QRImageURL(id string) string {
	return c.baseURL + "/qr-image/" + id
}

func (c *Client) Login(username, password string) (string, time.Time, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", time.Time{}, err
	}

	data, err := c.do(http.MethodPost, "/api/auth/login", bytes.NewReader(body), "application/json")
	if err != nil {
		return "", time.Time{}, err
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", time.Time{}, fmt.Errorf("unexpected login response: %w", err)
	}

	c.token = resp.Token
	return resp.Token, resp.ExpiresAt, nil
}

func (c *Client) Logout() error {
	_, err := c.do(http.MethodPost, "/api/auth/logout", nil, "")
	if err == nil {
		c.token = ""
	}
	return err
}

// AuthStatus reports whether the held token is still good.
func (c *Client) AuthStatus() (models.AuthStatusResponse, error) {
	data, err := c.do(http.MethodGet, "/api/auth/status", nil, "")
	if err != nil {
		return models.AuthStatusResponse{}, err
	}

	var resp models.AuthStatusResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.AuthStatusResponse{}, fmt.Errorf("unexpected status response: %w", err)
	}
	return resp, nil
}

// Health pings the server without auth. Used by the settings screen's
// connection test.
func (c *Client) Health() error {
	_, err := c.do(http.MethodGet, "/health", nil, "")
	return err
}

func (c *Client) CreateQR(title, description string) (content.Record, error) {
	body, err := json.Marshal(models.CreateQRRequest{Title: title, Description: description})
	if err != nil {
		return content.Record{}, err
	}
	return c.record(http.MethodPost, "/api/qr/create", bytes.NewReader(body), "application/json")
}

func (c *Client) GetQR(id string) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	return c.record(http.MethodGet, "/api/qr/"+id, nil, "")
}

func (c *Client) UpdateQR(id string, req models.UpdateQRRequest) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	body, err := json.Marshal(req)
	if err != nil {
		return content.Record{}, err
	}
	return c.record(http.MethodPatch, "/api/qr/"+id, bytes.NewReader(body), "application/json")
}

func (c *Client) DeleteQR(id string) error {
	if id == "" {
		return ErrMissingID
	}
	_, err := c.do(http.MethodDelete, "/api/qr/"+id, nil, "")
	return err
}

func (c *Client) RestoreQR(id string) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	return c.record(http.MethodPost, "/api/qr/"+id+"/restore", nil, "")
}

// ReplaceContent submits a text, link or contact payload. File content
// goes through UploadFile instead.
func (c *Client) ReplaceContent(id string, payload content.Payload) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	cnt, err := content.New(payload)
	if err != nil {
		return content.Record{}, err
	}

	body, err := json.Marshal(cnt)
	if err != nil {
		return content.Record{}, err
	}
	return c.record(http.MethodPut, "/api/qr/"+id+"/content", bytes.NewReader(body), "application/json")
}

// UploadFile replaces content with a fresh file upload.
func (c *Client) UploadFile(id string, r io.Reader, fileName, mimeType, description string) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(fileName)))
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return content.Record{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return content.Record{}, err
	}
	if description != "" {
		mw.WriteField("description", description)
	}
	if err := mw.Close(); err != nil {
		return content.Record{}, err
	}

	return c.record(http.MethodPut, "/api/qr/"+id+"/content", &buf, mw.FormDataContentType())
}

// KeepFile resubmits the stored file so only the description moves.
// No file bytes travel; the server keeps the path it already has.
func (c *Client) KeepFile(id, filePath, originalName, description string) (content.Record, error) {
	if id == "" {
		return content.Record{}, ErrMissingID
	}
	if filePath == "" {
		return content.Record{}, content.ErrFileRequired
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("filePath", filePath)
	mw.WriteField("originalName", originalName)
	if description != "" {
		mw.WriteField("description", description)
	}
	if err := mw.Close(); err != nil {
		return content.Record{}, err
	}

	return c.record(http.MethodPut, "/api/qr/"+id+"/content", &buf, mw.FormDataContentType())
}

type ListResult struct {
	QRs        []content.Record
	Pagination models.Pagination
}

func (c *Client) ListQRs(params models.ListParams) (ListResult, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.ContentType != "" {
		q.Set("contentType", string(params.ContentType))
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if !params.SortDesc {
		q.Set("sortOrder", "asc")
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("limit", strconv.Itoa(params.PerPage))
	}

	path := "/api/qr"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	data, err := c.do(http.MethodGet, path, nil, "")
	if err != nil {
		return ListResult{}, err
	}

	var raw struct {
		QRs        []map[string]any  `json:"qrs"`
		Pagination models.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return ListResult{}, fmt.Errorf("unexpected list response: %w", err)
	}

	result := ListResult{Pagination: raw.Pagination}
	for _, item := range raw.QRs {
		result.QRs = append(result.QRs, content.Normalize(item))
	}
	return result, nil
}

func (c *Client) Stats() (models.Stats, error) {
	data, err := c.do(http.MethodGet, "/api/qr/stats", nil, "")
	if err != nil {
		return models.Stats{}, err
	}

	var resp models.StatsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.Stats{}, fmt.Errorf("unexpected stats response: %w", err)
	}
	return resp.Stats, nil
}

// record runs a request and normalizes whatever record shape comes
// back, wrapped or not.
func (c *Client) record(method, path string, body io.Reader, contentType string) (content.Record, error) {
	data, err := c.do(method, path, body, contentType)
	if err != nil {
		return content.Record{}, err
	}

	rec, err := content.NormalizeJSON(data)
	if err != nil {
		return content.Record{}, fmt.Errorf("unexpected response: %w", err)
	}
	return rec, nil
}

func (c *Client) do(method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, data)
	}
	return data, nil
}

// apiError digs a human-readable message out of an error body: message
// first, then error, then a generic line with the status code.
func apiError(status int, body []byte) error {
	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Message != "" {
			return fmt.Errorf("%s", resp.Message)
		}
		if resp.Error != "" && resp.Error != "error" {
			return fmt.Errorf("%s", resp.Error)
		}
	}
	return fmt.Errorf("server error %d", status)
}
