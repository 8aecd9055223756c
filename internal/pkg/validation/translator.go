package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Translator renders validator errors as English sentences
type Translator struct {
	trans ut.Translator
}

// Setup registers the custom rules, the English translations and the "label"
// struct tag as field name source on v
func Setup(v *validator.Validate) (*Translator, error) {
	if err := RegisterRules(v); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	custom := map[string]string{
		"mobile": "{0} must be a 10 digit number",
		"dob":    "{0} must be a valid date",
	}
	for tag, text := range custom {
		text := text
		err := v.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T(fe.Tag(), fe.Field())
				return msg
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Translator{trans: trans}, nil
}

// Message returns the first validation failure of err as a sentence. Errors
// that are not validation errors yield fallback.
func (t *Translator) Message(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}
	return verrs[0].Translate(t.trans)
}
