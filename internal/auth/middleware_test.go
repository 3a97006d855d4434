package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Yu1chiro/elib-smantiara/internal/config"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_auth_" + t.Name() + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	sm, err := NewSessionManager(sqlDB, config.Session{
		Lifetime:      time.Hour,
		SecureCookies: false,
	})
	require.NoError(t, err)

	svc, err := NewService(config.Admin{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	router := gin.New()
	router.Use(sm.SessionLoadSave())

	NewController(svc, sm, nil).RegisterRoutes(router)

	protected := router.Group("/api", RequireAuth(sm))
	protected.GET("/books", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Page-style route behind the same gate
	router.GET("/admin", RequireAuth(sm), func(c *gin.Context) {
		c.String(http.StatusOK, "admin page")
	})

	cleanup := func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return router, cleanup
}

func doJSON(router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) []*http.Cookie {
	w := doJSON(router, http.MethodPost, "/api/login", `{"username":"admin","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "login must set a session cookie")
	return cookies
}

func TestRequireAuth_APIRequestGets401(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := doJSON(router, http.MethodGet, "/api/books", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"authentication required"}`, w.Body.String())
}

func TestRequireAuth_PageRequestRedirects(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=/admin", w.Header().Get("Location"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	for _, body := range []string{
		`{"username":"admin","password":"wrong"}`,
		`{"username":"intruder","password":"secret"}`,
		`not json at all`,
		`{}`,
	} {
		w := doJSON(router, http.MethodPost, "/api/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "body: %s", body)
		assert.JSONEq(t, `{"success":false,"message":"invalid username or password"}`, w.Body.String())
	}
}

func TestLogin_EstablishesSession(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	cookies := login(t, router)

	// Session cookie is HttpOnly
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == "session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)

	w := doJSON(router, http.MethodGet, "/api/books", "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/check-auth", "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"username":"admin"}`, w.Body.String())
}

func TestLogout_InvalidatesSession(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	cookies := login(t, router)

	w := doJSON(router, http.MethodPost, "/api/logout", "", cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	// The server-side session is gone even if the client replays the cookie
	w = doJSON(router, http.MethodGet, "/api/books", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	router, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := doJSON(router, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"logged out"}`, w.Body.String())
}
