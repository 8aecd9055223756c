package middleware

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/validation"
)

var (
	setupOnce       sync.Once
	setupTranslator *validation.Translator
	setupErr        error
)

// SetupValidation registers the custom rules and English messages on gin's
// validator engine. The engine is global, so the work is done once.
func SetupValidation() (*validation.Translator, error) {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("unexpected gin validator engine")
			return
		}
		setupTranslator, setupErr = validation.Setup(v)
	})
	return setupTranslator, setupErr
}

// FormBinder binds form posts and turns validation failures into readable
// messages
type FormBinder struct {
	translator *validation.Translator
}

// NewFormBinder creates a new FormBinder
func NewFormBinder(translator *validation.Translator) *FormBinder {
	return &FormBinder{translator: translator}
}

// Bind decodes the request form into obj and validates it. Validation
// failures are returned as apperrors validation errors carrying the first
// message; oversized bodies as apperrors.ErrPayloadTooLarge.
func (b *FormBinder) Bind(c *gin.Context, obj any) error {
	err := c.ShouldBindWith(obj, binding.Form)
	if err == nil {
		return nil
	}
	if IsBodyTooLarge(err) {
		return apperrors.ErrPayloadTooLarge
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.NewValidationError(b.translator.Message(err, "Invalid form submission"))
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid form submission").
		WithDetails(map[string]interface{}{"cause": fmt.Sprint(err)})
}
