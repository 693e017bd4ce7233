// internal/testutil/http.go
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TheTrueCuriousChild/krishiseva/internal/app/system/auth"
	"github.com/TheTrueCuriousChild/krishiseva/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithUser injects an authenticated user into the request context,
// bypassing bearer-token verification.
func WithUser(r *http.Request, id string, role models.Role) *http.Request {
	return auth.WithTestUser(r, &auth.AuthUser{ID: id, Role: role})
}

// NewJSONRequest builds a request carrying a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest builds a request with a context user already set.
func NewAuthenticatedRequest(t *testing.T, method, target string, body any, role models.Role) *http.Request {
	t.Helper()
	req := NewJSONRequest(t, method, target, body)
	return WithUser(req, primitive.NewObjectID().Hex(), role)
}

// DecodeEnvelope unmarshals a {success, message, data, errors} response body.
type DecodedEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Count   *int            `json:"count"`
}

// DecodeEnvelopeBody parses the recorder body into a DecodedEnvelope.
func DecodeEnvelopeBody(t *testing.T, rec *httptest.ResponseRecorder) DecodedEnvelope {
	t.Helper()
	var env DecodedEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a valid envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status code: got %d, want %d\nbody: %s", rec.Code, want, rec.Body.String())
	}
}

// AssertBodyContains fails the test when the body lacks the substring.
func AssertBodyContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("response body does not contain %q\nbody: %s", want, rec.Body.String())
	}
}
