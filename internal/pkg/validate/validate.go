// Package validate checks request payloads with struct tags and reports
// English messages keyed by JSON field name.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// FieldErrors maps JSON field names to a human readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	msgs := make([]string, 0, len(f))
	for _, msg := range f {
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// Is makes FieldErrors match ErrInvalidInput.
func (f FieldErrors) Is(target error) bool {
	return target == domainErrors.ErrInvalidInput
}

// Check validates val and returns FieldErrors on failure.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}
		if len(verrors) == 0 {
			return nil
		}

		fields := make(FieldErrors, len(verrors))
		for _, verr := range verrors {
			fields[verr.Field()] = verr.Translate(translator)
		}
		return fields
	}
	return nil
}

// GenerateID returns a random identifier.
func GenerateID() string {
	return uuid.NewString()
}

// CheckID reports whether id is a well formed identifier.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("ID is not in its proper form")
	}
	return nil
}
