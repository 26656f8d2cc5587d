package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", JwtAuthMiddleware(testSecret))
	group.Use(extra...)
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": SubjectID(c)})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJwtAuthMiddleware(t *testing.T) {
	r := protectedRouter()

	t.Run("valid token passes the subject through", func(t *testing.T) {
		token, err := GenerateToken("cp-1", RoleCounterparty, testSecret, time.Hour)
		require.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"subject":"cp-1"`)
	})

	t.Run("missing header", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(r, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "InvalidToken")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken("cp-1", RoleCounterparty, testSecret, -time.Minute)
		require.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ExpiredToken")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := GenerateToken("cp-1", RoleCounterparty, "other-secret", time.Hour)
		require.NoError(t, err)

		w := doGet(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter(RequireRole(RoleModerator))

	token, err := GenerateToken("cp-1", RoleCounterparty, testSecret, time.Hour)
	require.NoError(t, err)
	w := doGet(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	token, err = GenerateToken("mod-1", RoleModerator, testSecret, time.Hour)
	require.NoError(t, err)
	w = doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
