package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/session"
)

const testCookie = "sid"

// pageRecorder renders the template name instead of executing templates
type pageRecorder struct {
	name string
	data any
}

func (p *pageRecorder) Instance(name string, data any) render.Render {
	p.name = name
	p.data = data
	return render.Data{ContentType: "text/html; charset=utf-8", Data: []byte(name)}
}

func init() {
	gin.SetMode(gin.TestMode)
}

type gateFixture struct {
	router   *gin.Engine
	pages    *pageRecorder
	sessions *session.Manager
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	am := NewAuthMiddleware(sessions, CookieConfig{Name: testCookie})
	pages := &pageRecorder{}

	r := gin.New()
	r.HTMLRender = pages
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }

	site := r.Group("/", am.LoadSession())
	site.GET("/public", ok)
	site.GET("/profile", am.RequireAuthenticated(), ok)
	site.GET(StudentHomePath, am.RequireAuthenticated(), am.RequireCompleteProfile(), ok)
	site.GET(AdminDashboardPath, am.RequireRole(models.RoleAdmin), ok)
	site.GET("/solution/1", am.RequireAuthenticated(), am.RequireCompleteProfileOrAdmin(), ok)

	return &gateFixture{router: r, pages: pages, sessions: sessions}
}

func (f *gateFixture) login(t *testing.T, role models.RoleType, complete bool) string {
	t.Helper()
	token, _, err := f.sessions.Create(context.Background(), &models.User{
		ID:                "user-" + string(role),
		Mobile:            "9876543210",
		Role:              role,
		IsProfileComplete: complete,
	})
	require.NoError(t, err)
	return token
}

func (f *gateFixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGateRedirects(t *testing.T) {
	f := newGateFixture(t)
	student := f.login(t, models.RoleStudent, true)
	newcomer := f.login(t, models.RoleStudent, false)
	admin := f.login(t, models.RoleAdmin, true)

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"anonymous profile", "/profile", "", http.StatusFound, LoginPath},
		{"anonymous student area", StudentHomePath, "", http.StatusFound, LoginPath},
		{"anonymous admin area", AdminDashboardPath, "", http.StatusFound, LoginPath},
		{"student dashboard", StudentHomePath, student, http.StatusOK, ""},
		{"incomplete profile", StudentHomePath, newcomer, http.StatusFound, CompleteProfilePath},
		{"incomplete profile may see profile", "/profile", newcomer, http.StatusOK, ""},
		{"admin on student area", StudentHomePath, admin, http.StatusFound, AdminDashboardPath},
		{"student on admin area", AdminDashboardPath, student, http.StatusFound, LoginPath},
		{"admin dashboard", AdminDashboardPath, admin, http.StatusOK, ""},
		{"unknown token", "/profile", "bogus", http.StatusFound, LoginPath},
		{"anonymous solution", "/solution/1", "", http.StatusFound, LoginPath},
		{"student solution", "/solution/1", student, http.StatusOK, ""},
		{"incomplete profile solution", "/solution/1", newcomer, http.StatusFound, CompleteProfilePath},
		{"admin solution", "/solution/1", admin, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestLoadSessionClearsStaleCookie(t *testing.T) {
	f := newGateFixture(t)

	w := f.get("/public", "stale")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), testCookie+"=;")
}

func TestLoadSessionAfterDestroy(t *testing.T) {
	f := newGateFixture(t)
	token := f.login(t, models.RoleStudent, true)
	require.NoError(t, f.sessions.Destroy(context.Background(), token))

	w := f.get(StudentHomePath, token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestHomePath(t *testing.T) {
	assert.Equal(t, AdminDashboardPath, HomePath(models.RoleAdmin, false))
	assert.Equal(t, CompleteProfilePath, HomePath(models.RoleStudent, false))
	assert.Equal(t, StudentHomePath, HomePath(models.RoleStudent, true))
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		page     string
		message  string
		location string
	}{
		{"content not found", fmt.Errorf("lookup: %w", apperrors.ErrContentNotFound), http.StatusNotFound, NotFoundTemplate, "", ""},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, NotFoundTemplate, "", ""},
		{"no session", apperrors.ErrSessionNotFound, http.StatusFound, "", "", LoginPath},
		{"validation", apperrors.NewValidationError("Class is required"), http.StatusBadRequest, ErrorTemplate, "Class is required", ""},
		{"too large", apperrors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, ErrorTemplate, "File too large! Max limit is 2MB.", ""},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, ErrorTemplate, GenericErrorMessage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := &pageRecorder{}
			r := gin.New()
			r.HTMLRender = pages
			r.GET("/x", func(c *gin.Context) { HandleError(c, tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.page, pages.name)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			if tt.message != "" {
				data, ok := pages.data.(gin.H)
				require.True(t, ok)
				assert.Equal(t, tt.message, data["message"])
			}
		})
	}
}

func TestRecoveryRendersErrorPage(t *testing.T) {
	pages := &pageRecorder{}
	r := gin.New()
	r.HTMLRender = pages
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrorTemplate, pages.name)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/upload", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if IsBodyTooLarge(err) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(make([]byte, 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	assert.False(t, IsBodyTooLarge(nil))
	assert.False(t, IsBodyTooLarge(errors.New("unexpected EOF")))
}

func TestPartialFormValuesAfterOversizedUpload(t *testing.T) {
	var recovered url.Values
	r := gin.New()
	r.Use(BodyLimit(512))
	r.POST("/upload", RecordFormPrefix(400), func(c *gin.Context) {
		err := c.Request.ParseMultipartForm(1 << 20)
		require.True(t, IsBodyTooLarge(err))
		recovered = PartialFormValues(c)
		c.Status(http.StatusRequestEntityTooLarge)
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("chapterName", "Real Numbers"))
	require.NoError(t, mw.WriteField("videoID", "abc123"))
	require.NoError(t, mw.WriteField("textSolution", strings.Repeat("x", 300)))
	fw, err := mw.CreateFormFile("questionImage", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(make([]byte, 2048))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Real Numbers", recovered.Get("chapterName"))
	assert.Equal(t, "abc123", recovered.Get("videoID"))
	// cut off by the recorded prefix
	assert.Empty(t, recovered.Get("textSolution"))
}

func TestPartialFormValuesWithoutRecording(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", nil)
	assert.Empty(t, PartialFormValues(c))
}
