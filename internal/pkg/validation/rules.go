// Package validation configures the go-playground validator used by gin
// binding: JSON field names, English messages and the ERP specific tags.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yigit/collegeerp/internal/app/models"
)

// Validation rule patterns
var (
	// EntityIDPattern matches department, class, course, teacher ids and USNs
	EntityIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

	// SectionPattern is a single section letter
	SectionPattern = regexp.MustCompile(`^[A-Z]$`)
)

var (
	setupOnce  sync.Once
	setupErr   error
	translator ut.Translator
)

type rule struct {
	tag     string
	fn      validator.Func
	message string
}

var rules = []rule{
	{"day", isDay, "{0} must be a weekday from Monday to Saturday"},
	{"attendance_status", isAttendanceStatus, "{0} must be Present or Absent"},
	{"entity_id", isEntityID, "{0} may only contain letters, digits, '-' and '_' (max 20)"},
	{"section", isSection, "{0} must be a single capital letter"},
}

// Setup registers field naming, translations and custom tags on gin's
// validator engine. It is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		translator, setupErr = Register(v)
	})
	return setupErr
}

// Register configures v and returns the English translator bound to it
func Register(v *validator.Validate) (ut.Translator, error) {
	v.RegisterTagNameFunc(fieldName)

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	for _, r := range rules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			return nil, fmt.Errorf("failed to register %q: %w", r.tag, err)
		}
		message := r.message
		err := v.RegisterTranslation(r.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(r.tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(fe.Tag(), fe.Field())
				return t
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register %q translation: %w", r.tag, err)
		}
	}
	return trans, nil
}

// fieldName reports json (or form) names so messages match the request body
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Translate turns a binding error into field -> message pairs.
// ok is false when err is not a validation or decoding error.
func Translate(err error) (fields map[string]string, ok bool) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields = make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			if translator != nil {
				fields[fe.Field()] = fe.Translate(translator)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()}, true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return map[string]string{"body": "malformed JSON"}, true
	}
	return nil, false
}

func isDay(fl validator.FieldLevel) bool {
	_, ok := models.ParseDay(fl.Field().String())
	return ok
}

func isAttendanceStatus(fl validator.FieldLevel) bool {
	return models.AttendanceStatus(fl.Field().String()).Valid()
}

func isEntityID(fl validator.FieldLevel) bool {
	return EntityIDPattern.MatchString(fl.Field().String())
}

func isSection(fl validator.FieldLevel) bool {
	return SectionPattern.MatchString(fl.Field().String())
}
