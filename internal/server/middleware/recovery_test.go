package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecoveryPanic(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestRecoveryPassthrough(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestIsConnClosed(t *testing.T) {
	tests := []struct {
		name string
		r    any
		want bool
	}{
		{
			name: "broken pipe",
			r:    &net.OpError{Op: "write", Err: fmt.Errorf("writev: %w", syscall.EPIPE)},
			want: true,
		},
		{
			name: "connection reset",
			r:    &net.OpError{Op: "write", Err: fmt.Errorf("write: %w", syscall.ECONNRESET)},
			want: true,
		},
		{
			name: "other net error",
			r:    &net.OpError{Op: "dial", Err: fmt.Errorf("timeout")},
			want: false,
		},
		{
			name: "not an error",
			r:    "boom",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnClosed(tt.r); got != tt.want {
				t.Errorf("isConnClosed(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}
