package httputil

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestReadJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"gold","count":3}`))

		var out testPayload
		if err := ReadJSON(req, &out, 1<<10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Name != "gold" || out.Count != 3 {
			t.Errorf("unexpected payload: %+v", out)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var out testPayload
		err := ReadJSON(req, &out, 1<<10)
		if !errors.Is(err, ErrEmptyBody) {
			t.Fatalf("expected ErrEmptyBody, got: %v", err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

		var out testPayload
		if err := ReadJSON(req, &out, 1<<10); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := WriteJSON(rec, 201, testPayload{Name: "silver", Count: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != 201 {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get(HeaderContentType); ct != ContentTypeJSON {
		t.Errorf("expected json content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"silver"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestWriteErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := WriteErrorJSON(rec, 404, " not_found ", "row missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `"not_found"`) {
		t.Errorf("expected trimmed code in body: %s", body)
	}
	if !strings.Contains(body, `"row missing"`) {
		t.Errorf("expected message in body: %s", body)
	}
}
