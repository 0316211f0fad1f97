package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(AuthUserKey), "email": c.GetString(AuthEmailKey)})
	})
	return r
}

func TestJWTAuthMiddleware_ValidCookie(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 0)
	token, _ := jwtUtil.GenerateToken("u1", "a@x.com")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	w := httptest.NewRecorder()
	newAuthRouter(jwtUtil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","email":"a@x.com"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 0)
	foreign, _ := utils.NewJWTUtil("other", 0).GenerateToken("u1", "a@x.com")

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "empty cookie", cookie: &http.Cookie{Name: TokenCookie, Value: ""}},
		{name: "garbage", cookie: &http.Cookie{Name: TokenCookie, Value: "abc.def.ghi"}},
		{name: "wrong secret", cookie: &http.Cookie{Name: TokenCookie, Value: foreign}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			w := httptest.NewRecorder()
			newAuthRouter(jwtUtil).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
