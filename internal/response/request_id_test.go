package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func serveWithRequestID(req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	w := serveWithRequestID(httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("generated id not a UUID: %q", w.Header().Get("X-Request-ID"))
	}
}

func TestRequestIDHonorsValidInbound(t *testing.T) {
	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", id)

	w := serveWithRequestID(req)

	if got := w.Header().Get("X-Request-ID"); got != id {
		t.Errorf("id = %q, want inbound %q", got, id)
	}
}

func TestRequestIDReplacesNonUUIDInbound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")

	w := serveWithRequestID(req)

	got := w.Header().Get("X-Request-ID")
	if got == "not-a-uuid" {
		t.Fatal("non-UUID inbound id should be replaced")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("replacement id not a UUID: %q", got)
	}
}
