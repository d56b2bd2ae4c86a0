package rest

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/voiceshield-labs/voiceshield/backend/internal/adapters/codec"
	"github.com/voiceshield-labs/voiceshield/backend/internal/adapters/sqlite"
	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/services"
	"github.com/voiceshield-labs/voiceshield/backend/internal/dsp"
)

// newTestServer wires the full stack behind the HTTP adapter: real
// SQLite storage, real decoder and feature extractor, no worker pool.
func newTestServer(t *testing.T) *Handler {
	t.Helper()

	repo, err := sqlite.NewAdapter(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	detector := services.NewDetector(
		codec.NewDecoder(22050),
		dsp.NewExtractor(dsp.DefaultParams()),
		services.DefaultDetectorConfig(),
		zerolog.Nop(),
	)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	accounts := services.NewAccounts(repo, tokens)
	library := services.NewLibrary(repo, detector, t.TempDir(), 1<<20,
		[]string{"mp3", "wav", "m4a", "ogg", "flac"})

	return NewHandler(accounts, library, tokens, nil, false, zerolog.Nop())
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func signUpUser(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("signup returned no token")
	}
	return resp.Token
}

func uploadFile(t *testing.T, h http.Handler, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/voice/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// sineWAV builds a playable 16-bit mono WAV holding a pure tone.
func sineWAV(t *testing.T, freq float64, seconds float64) []byte {
	t.Helper()
	const rate = 22050
	n := int(seconds * rate)
	var data bytes.Buffer
	for i := 0; i < n; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / rate)
		if err := binary.Write(&data, binary.LittleEndian, int16(v*16000)); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	return buf.Bytes()
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSignUpAndLogin(t *testing.T) {
	h := newTestServer(t)
	signUpUser(t, h, "eve@example.com")

	// Duplicate signup is rejected.
	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "eve@example.com", "password": "hunter2hunter2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d", rec.Code)
	}
	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Error != "User already exists" {
		t.Errorf("error = %q", errResp.Error)
	}

	// Login with the right password.
	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "eve@example.com", "password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" || resp.User.Email != "eve@example.com" {
		t.Errorf("login response = %+v", resp)
	}

	// And with a wrong one.
	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "eve@example.com", "password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", rec.Code)
	}
}

func TestSignUp_RequiresJSON(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name      string
		authorize func(r *http.Request)
		wantError string
	}{
		{"missing header", func(r *http.Request) {}, "Token is missing"},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, "Invalid token format"},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, "Token is invalid or expired"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/voice/files", nil)
			tc.authorize(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp errorResponse
			decodeBody(t, rec, &resp)
			if resp.Error != tc.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tc.wantError)
			}
		})
	}
}

func TestUpload_RejectsBadType(t *testing.T) {
	h := newTestServer(t)
	token := signUpUser(t, h, "frank@example.com")

	rec := uploadFile(t, h, token, "malware.exe", []byte("MZ"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "Invalid file type") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestUploadAnalyzeHistoryDelete(t *testing.T) {
	h := newTestServer(t)
	token := signUpUser(t, h, "grace@example.com")

	// Upload a real tone.
	rec := uploadFile(t, h, token, "tone.wav", sineWAV(t, 440, 1.0))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	var up uploadResponse
	decodeBody(t, rec, &up)
	if up.FileID == 0 || !strings.HasSuffix(up.Filename, ".wav") {
		t.Fatalf("upload response = %+v", up)
	}

	// Analyze it. A steady pure tone is maximally regular, so the
	// verdict should flag it.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/voice/analyze/%d", up.FileID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", rec.Code, rec.Body.String())
	}
	var ana analyzeResponse
	decodeBody(t, rec, &ana)
	if ana.ResultID == 0 {
		t.Error("missing result id")
	}
	if !ana.Analysis.IsAIGenerated {
		t.Errorf("pure tone not flagged: confidence %v", ana.Analysis.Confidence)
	}

	// The analysis shows up in history.
	rec = doJSON(t, h, http.MethodGet, "/api/voice/history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var hist struct {
		History []json.RawMessage `json:"history"`
	}
	decodeBody(t, rec, &hist)
	if len(hist.History) != 1 {
		t.Errorf("history has %d entries, want 1", len(hist.History))
	}

	// And the file in the listing.
	rec = doJSON(t, h, http.MethodGet, "/api/voice/files", token, nil)
	var files struct {
		Files []json.RawMessage `json:"files"`
	}
	decodeBody(t, rec, &files)
	if len(files.Files) != 1 {
		t.Errorf("listing has %d files, want 1", len(files.Files))
	}

	// Delete and confirm it is gone.
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/voice/files/%d", up.FileID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/voice/files/%d", up.FileID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

func TestAnalyze_UndecodableUploadFallsBack(t *testing.T) {
	h := newTestServer(t)
	token := signUpUser(t, h, "heidi@example.com")

	// The extension passes the allowlist but the bytes are not audio:
	// analysis must answer with the neutral verdict, not an error.
	rec := uploadFile(t, h, token, "garbage.wav", []byte("this is not audio at all"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	var up uploadResponse
	decodeBody(t, rec, &up)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/voice/analyze/%d", up.FileID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", rec.Code, rec.Body.String())
	}
	var ana analyzeResponse
	decodeBody(t, rec, &ana)
	if ana.Analysis.IsAIGenerated {
		t.Error("fallback verdict flagged as AI")
	}
	if ana.Analysis.Confidence != 0.5 {
		t.Errorf("confidence = %v, want the neutral 0.5", ana.Analysis.Confidence)
	}
	if len(ana.Analysis.ScamPatterns) != 0 {
		t.Errorf("patterns = %v, want none", ana.Analysis.ScamPatterns)
	}
	if ana.Analysis.Details.Error == "" {
		t.Error("details must carry the failure description")
	}
}

func TestAnalyze_OtherUsersFileIsNotFound(t *testing.T) {
	h := newTestServer(t)
	owner := signUpUser(t, h, "ivan@example.com")
	intruder := signUpUser(t, h, "judy@example.com")

	rec := uploadFile(t, h, owner, "mine.wav", sineWAV(t, 440, 0.5))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var up uploadResponse
	decodeBody(t, rec, &up)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/voice/analyze/%d", up.FileID), intruder, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for another user's file", rec.Code)
	}
}

func TestAnalyze_BadID(t *testing.T) {
	h := newTestServer(t)
	token := signUpUser(t, h, "kim@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/voice/analyze/not-a-number", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
