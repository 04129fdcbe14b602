package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func get(t *testing.T, h http.Handler, path string) (int, status) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var st status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return rec.Code, st
}

func TestReadiness(t *testing.T) {
	s := New(0, "test")
	h := s.Handler()

	if code, st := get(t, h, "/healthz"); code != http.StatusOK || st.Version != "test" {
		t.Fatalf("healthz: %d %+v", code, st)
	}
	if code, st := get(t, h, "/readyz"); code != http.StatusServiceUnavailable || st.Status != "not_ready" {
		t.Fatalf("readyz before ready: %d %+v", code, st)
	}

	s.SetReady(true)
	if code, st := get(t, h, "/readyz"); code != http.StatusOK || st.Status != "ok" {
		t.Fatalf("readyz after ready: %d %+v", code, st)
	}
}
