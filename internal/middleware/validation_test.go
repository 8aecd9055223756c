package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

func bindForm(t *testing.T, form url.Values, limit int64, obj any) error {
	t.Helper()

	translator, err := SetupValidation()
	require.NoError(t, err)
	binder := NewFormBinder(translator)

	var bindErr error
	r := gin.New()
	r.Use(BodyLimit(limit))
	r.POST("/form", func(c *gin.Context) {
		bindErr = binder.Bind(c, obj)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)
	return bindErr
}

func TestFormBinderAcceptsValidForm(t *testing.T) {
	var req dto.LoginRequest
	err := bindForm(t, url.Values{"mobile": {"9876543210"}, "password": {"secret1"}}, 0, &req)

	require.NoError(t, err)
	assert.Equal(t, "9876543210", req.Mobile)
}

func TestFormBinderTranslatesErrors(t *testing.T) {
	var req dto.RegisterRequest
	err := bindForm(t, url.Values{
		"mobile":       {"12345"},
		"password":     {"secret1"},
		"name":         {"Asha"},
		"dob":          {"2008-04-01"},
		"studentClass": {"10"},
		"medium":       {"English"},
	}, 0, &req)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Mobile Number must be a 10 digit number", apperrors.UserMessage(err, ""))
}

func TestFormBinderRejectsOversizedBody(t *testing.T) {
	var req dto.LoginRequest
	err := bindForm(t, url.Values{"mobile": {"9876543210"}, "password": {strings.Repeat("x", 256)}}, 32, &req)

	assert.ErrorIs(t, err, apperrors.ErrPayloadTooLarge)
}

func TestSetupValidationIsIdempotent(t *testing.T) {
	first, err := SetupValidation()
	require.NoError(t, err)
	second, err := SetupValidation()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
