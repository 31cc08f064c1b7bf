package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared"
	"library-backend/pkg/jwt"
)

type capturedUser struct {
	userID uuid.UUID
	role   string
	ok     bool
}

func authTestRouter(manager *jwt.Manager) (*gin.Engine, *capturedUser) {
	gin.SetMode(gin.TestMode)

	captured := &capturedUser{}
	r := gin.New()
	r.GET("/protected", AuthMiddleware(manager), func(c *gin.Context) {
		captured.userID, captured.role, captured.ok = CurrentUser(c)
		c.Status(http.StatusOK)
	})
	return r, captured
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID.String(), shared.RoleLibrarian)
	require.NoError(t, err)

	r, captured := authTestRouter(manager)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, captured.ok)
	assert.Equal(t, userID, captured.userID)
	assert.Equal(t, shared.RoleLibrarian, captured.role)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r, _ := authTestRouter(jwt.NewManager("test-secret", 60))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r, _ := authTestRouter(jwt.NewManager("test-secret", 60))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	r, _ := authTestRouter(jwt.NewManager("test-secret", 60))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLibrarianMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setup := func(role string, withRole bool) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if withRole {
				c.Set(shared.ContextRole, role)
			}
		}, LibrarianMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, setup(shared.RoleLibrarian, true).Code)
	assert.Equal(t, http.StatusForbidden, setup(shared.RoleMember, true).Code)
	assert.Equal(t, http.StatusForbidden, setup("", false).Code)
}
