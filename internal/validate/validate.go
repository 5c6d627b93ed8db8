// Package validate holds the struct validator shared by the CLI and the API
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/model"
)

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerShortMax(v, trans)
		registerDutyStatus(v, trans)

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates v and returns the first failure as a translated message.
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Translate(Get().Translator))
	}
	return err
}

func registerShortMax(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("max", trans,
		func(ut ut.Translator) error {
			return ut.Add("max", "{0} must be at most {1} characters", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("max", fe.Field(), fe.Param())
			return msg
		},
	)
}

func registerDutyStatus(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("dutystatus", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && model.Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterTranslation("dutystatus", trans,
		func(ut ut.Translator) error {
			return ut.Add("dutystatus", "{0} must be one of OFF, SLEEPER, DRIVING, ON_DUTY", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("dutystatus", fe.Field())
			return msg
		},
	)
}
