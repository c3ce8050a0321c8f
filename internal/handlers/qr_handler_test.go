package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/config"
	"github.com/davronov/qrdesk/internal/files"
	"github.com/davronov/qrdesk/internal/middleware"
	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/service"
	"github.com/davronov/qrdesk/internal/storage"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	fileStore, err := files.NewStore(config.UploadsConfig{
		Dir:          t.TempDir(),
		MaxFileSize:  1 << 20,
		AllowedTypes: []string{"application/pdf"},
	})
	if err != nil {
		t.Fatal(err)
	}

	qrService := service.NewQRService(storage.NewMemoryStorage(), nil, log, "http://localhost:8080")
	authService, err := service.NewAuthService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
		AdminUsername: "admin",
		AdminPassword: "hunter2",
	}, nil, log)
	if err != nil {
		t.Fatal(err)
	}

	return NewRouter(RouterDeps{
		QR:             NewQRHandler(qrService, fileStore, log),
		Auth:           NewAuthHandler(authService, log),
		Scan:           NewScanHandler(qrService, fileStore, log),
		Health:         NewHealthHandler(nil),
		AuthMW:         middleware.NewAuthMiddleware(authService),
		RequestTimeout: 5 * time.Second,
	})
}

func login(t *testing.T, srv http.Handler) string {
	t.Helper()

	body := `{"username":"admin","password":"hunter2"}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body)
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Token
}

func doJSON(t *testing.T, srv http.Handler, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createQR(t *testing.T, srv http.Handler, token, title string) models.QRCode {
	t.Helper()

	rec := doJSON(t, srv, token, http.MethodPost, "/api/qr/create", fmt.Sprintf(`{"title":%q}`, title))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	var resp models.QRResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.QR
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	if token := login(t, srv); token == "" {
		t.Fatal("expected a token")
	}

	rec := doJSON(t, srv, "", http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", rec.Code)
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "", http.MethodGet, "/api/qr", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, srv, "garbage", http.MethodGet, "/api/qr", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}
}

func TestCreateReturnsWrappedShape(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doJSON(t, srv, token, http.MethodPost, "/api/qr/create", `{"title":"Cafe menu"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if raw["success"] != true {
		t.Error("expected success flag")
	}

	qr, ok := raw["qr"].(map[string]any)
	if !ok {
		t.Fatalf("expected qr object, got %T", raw["qr"])
	}
	if qr["title"] != "Cafe menu" {
		t.Errorf("title = %v", qr["title"])
	}
	cc, ok := qr["currentContent"].(map[string]any)
	if !ok || cc["type"] != "empty" {
		t.Errorf("currentContent = %v, want empty variant", qr["currentContent"])
	}
	if !strings.HasPrefix(qr["scanUrl"].(string), "http://localhost:8080/scan/") {
		t.Errorf("scanUrl = %v", qr["scanUrl"])
	}
}

func TestReplaceContentNormalizesURL(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Promo")

	rec := doJSON(t, srv, token, http.MethodPut, "/api/qr/"+qr.ID+"/content",
		`{"type":"link","url":"example.com/sale"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	cc := body["qr"].(map[string]any)["currentContent"].(map[string]any)
	if cc["url"] != "https://example.com/sale" {
		t.Errorf("url = %v, want https scheme added", cc["url"])
	}
}

func TestReplaceContentRejectsInvalid(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Promo")

	tests := []struct {
		name string
		body string
	}{
		{"blank text", `{"type":"text","text":"  "}`},
		{"bad url", `{"type":"link","url":"ht tp://x"}`},
		{"contact without name", `{"type":"contact","phone":"+998901234567"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, token, http.MethodPut, "/api/qr/"+qr.ID+"/content", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
			}

			var resp models.ErrorResponse
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Message == "" {
				t.Error("expected a validation message")
			}
		})
	}
}

func TestReplaceContentMultipartFile(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Brochure")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="brochure.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, _ := mw.CreatePart(header)
	part.Write([]byte("%PDF-1.4 fake"))
	mw.WriteField("description", "print version")
	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/qr/"+qr.ID+"/content", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	cc := body["qr"].(map[string]any)["currentContent"].(map[string]any)
	if cc["type"] != "file" {
		t.Fatalf("type = %v, want file", cc["type"])
	}
	if cc["originalName"] != "brochure.pdf" {
		t.Errorf("originalName = %v", cc["originalName"])
	}
	if cc["description"] != "print version" {
		t.Errorf("description = %v", cc["description"])
	}
	if cc["filePath"] == "brochure.pdf" || cc["filePath"] == "" {
		t.Errorf("filePath = %v, want a generated name", cc["filePath"])
	}
}

func TestReplaceContentKeepsStoredFile(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Brochure")

	upload := func(buf *bytes.Buffer, mw *multipart.Writer) {
		req := httptest.NewRequest(http.MethodPut, "/api/qr/"+qr.ID+"/content", buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body)
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="brochure.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, _ := mw.CreatePart(header)
	part.Write([]byte("%PDF-1.4 fake"))
	mw.Close()
	upload(&buf, mw)

	rec := doJSON(t, srv, token, http.MethodGet, "/api/qr/"+qr.ID, "")
	var before map[string]any
	json.Unmarshal(rec.Body.Bytes(), &before)
	storedPath := before["qr"].(map[string]any)["currentContent"].(map[string]any)["filePath"].(string)
	if storedPath == "" {
		t.Fatal("upload left no stored path")
	}

	// Resubmit without a file part: the stored file stays, only the
	// description changes.
	var keep bytes.Buffer
	kw := multipart.NewWriter(&keep)
	kw.WriteField("filePath", storedPath)
	kw.WriteField("originalName", "brochure.pdf")
	kw.WriteField("description", "updated note")
	kw.Close()
	upload(&keep, kw)

	rec = doJSON(t, srv, token, http.MethodGet, "/api/qr/"+qr.ID, "")
	var after map[string]any
	json.Unmarshal(rec.Body.Bytes(), &after)
	cc := after["qr"].(map[string]any)["currentContent"].(map[string]any)
	if cc["filePath"] != storedPath {
		t.Errorf("filePath = %v, want %v", cc["filePath"], storedPath)
	}
	if cc["originalName"] != "brochure.pdf" {
		t.Errorf("originalName = %v", cc["originalName"])
	}
	if cc["description"] != "updated note" {
		t.Errorf("description = %v", cc["description"])
	}
}

func TestScanRedirectsLinkContent(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Promo")

	doJSON(t, srv, token, http.MethodPut, "/api/qr/"+qr.ID+"/content",
		`{"type":"link","url":"https://example.com/sale"}`)

	rec := doJSON(t, srv, "", http.MethodGet, "/scan/"+qr.ID, "")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/sale" {
		t.Errorf("location = %q", loc)
	}

	// The scan counted; preview must not add to it.
	doJSON(t, srv, "", http.MethodGet, "/preview/"+qr.ID, "")

	get := doJSON(t, srv, token, http.MethodGet, "/api/qr/"+qr.ID, "")
	var resp models.QRResponse
	json.Unmarshal(get.Body.Bytes(), &resp)
	if resp.QR.ScanCount != 1 {
		t.Errorf("scanCount = %d, want 1", resp.QR.ScanCount)
	}
}

func TestScanGuards(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Promo")

	rec := doJSON(t, srv, "", http.MethodGet, "/scan/missing-id", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d", rec.Code)
	}

	doJSON(t, srv, token, http.MethodPatch, "/api/qr/"+qr.ID, `{"isActive":false}`)
	rec = doJSON(t, srv, "", http.MethodGet, "/scan/"+qr.ID, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("paused: status = %d, want 403", rec.Code)
	}

	doJSON(t, srv, token, http.MethodDelete, "/api/qr/"+qr.ID, "")
	rec = doJSON(t, srv, "", http.MethodGet, "/scan/"+qr.ID, "")
	if rec.Code != http.StatusGone {
		t.Errorf("deleted: status = %d, want 410", rec.Code)
	}
}

func TestListShape(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	createQR(t, srv, token, "One")
	createQR(t, srv, token, "Two")

	rec := doJSON(t, srv, token, http.MethodGet, "/api/qr?limit=1&page=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp models.ListQRsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.QRs) != 1 {
		t.Errorf("len = %d, want 1", len(resp.QRs))
	}
	if resp.Pagination.Total != 2 || resp.Pagination.TotalPages != 2 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}

	rec = doJSON(t, srv, token, http.MethodGet, "/api/qr?contentType=hologram", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown filter status = %d, want 400", rec.Code)
	}
}

func TestQRImage(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)
	qr := createQR(t, srv, token, "Sign")

	rec := doJSON(t, srv, "", http.MethodGet, "/qr-image/"+qr.ID+"?size=128", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	qr := createQR(t, srv, token, "One")
	doJSON(t, srv, token, http.MethodPut, "/api/qr/"+qr.ID+"/content", `{"type":"text","text":"hi"}`)
	doJSON(t, srv, "", http.MethodGet, "/scan/"+qr.ID, "")

	rec := doJSON(t, srv, token, http.MethodGet, "/api/qr/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp models.StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stats.Total != 1 || resp.Stats.TotalScans != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats.ContentTypes["text"] != 1 {
		t.Errorf("contentTypes = %v", resp.Stats.ContentTypes)
	}
}

func TestAuthStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "", http.MethodGet, "/api/auth/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var anon models.AuthStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &anon); err != nil {
		t.Fatal(err)
	}
	if anon.Authenticated {
		t.Error("no token should not be authenticated")
	}

	token := login(t, srv)
	rec = doJSON(t, srv, token, http.MethodGet, "/api/auth/status", "")
	var authed models.AuthStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &authed); err != nil {
		t.Fatal(err)
	}
	if !authed.Authenticated || authed.User != "admin" {
		t.Errorf("status = %+v", authed)
	}

	rec = doJSON(t, srv, "garbage", http.MethodGet, "/api/auth/status", "")
	var bad models.AuthStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bad); err != nil {
		t.Fatal(err)
	}
	if bad.Authenticated {
		t.Error("garbage token should not be authenticated")
	}
}

func TestScanInfoPublic(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	qr := createQR(t, srv, token, "Menu")
	doJSON(t, srv, token, http.MethodPut, "/api/qr/"+qr.ID+"/content", `{"type":"text","text":"hi"}`)

	// No auth header on purpose.
	rec := doJSON(t, srv, "", http.MethodGet, "/api/scan-info/"+qr.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp models.QRResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.QR.CurrentContent.Kind() != "text" {
		t.Errorf("content kind = %v", resp.QR.CurrentContent.Kind())
	}
	// Fetching scan info is not a scan.
	if resp.QR.ScanCount != 0 {
		t.Errorf("scanCount = %d, want 0", resp.QR.ScanCount)
	}
}

func TestListStatusFilter(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	keep := createQR(t, srv, token, "Keep")
	gone := createQR(t, srv, token, "Gone")
	doJSON(t, srv, token, http.MethodDelete, "/api/qr/"+gone.ID, "")

	var resp models.ListQRsResponse

	rec := doJSON(t, srv, token, http.MethodGet, "/api/qr?status=deleted", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.QRs) != 1 || resp.QRs[0].ID != gone.ID {
		t.Errorf("status=deleted returned %d rows", len(resp.QRs))
	}

	rec = doJSON(t, srv, token, http.MethodGet, "/api/qr?status=all", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.QRs) != 2 {
		t.Errorf("status=all returned %d rows", len(resp.QRs))
	}

	rec = doJSON(t, srv, token, http.MethodGet, "/api/qr", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.QRs) != 1 || resp.QRs[0].ID != keep.ID {
		t.Errorf("default list returned %d rows", len(resp.QRs))
	}

	rec = doJSON(t, srv, token, http.MethodGet, "/api/qr?status=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus status filter = %d, want 400", rec.Code)
	}
}
