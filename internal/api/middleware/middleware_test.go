package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.Any("/api/v1/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"沿用合法 ID", "tab-42.reload_1", true},
		{"缺失时生成", "", false},
		{"含换行时重新生成", "abc\nINFO forged", false},
		{"超长时重新生成", strings.Repeat("a", requestIDMaxLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if got == "" || got != w.Body.String() {
				t.Fatalf("响应头与上下文中的 ID 应一致: header=%q body=%q", got, w.Body.String())
			}
			if (got == tt.incoming) != tt.keep {
				t.Errorf("ID = %q, 是否沿用期望 %v", got, tt.keep)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173/"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("预检请求期望 204, 实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("配置的来源应被放行")
	}
	if !strings.Contains(w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition") {
		t.Error("应暴露 Content-Disposition 供导出下载使用")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("未配置的来源不应被放行")
	}
}

func TestSecurityHeaders_NoStoreForAPI(t *testing.T) {
	r := newEngine(SecurityHeaders())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("API 响应应禁止缓存，实际 %q", w.Header().Get("Cache-Control"))
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("缺少 X-Frame-Options")
	}
}
