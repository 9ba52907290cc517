package card

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ValidationError lists the translated reasons a card was rejected.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid card: " + strings.Join(e.Messages, ", ")
}

type cardValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var loadValidator = sync.OnceValues(newValidator)

func newValidator() (*cardValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &cardValidator{
		validate:   validate,
		translator: trans,
	}, nil
}

// Validate checks that both sides of the card are present.
func Validate(c Card) error {
	v, err := loadValidator()
	if err != nil {
		return fmt.Errorf("loadValidator() > %w", err)
	}

	if err := v.validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("validate.Struct() > %w", err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, e.Translate(v.translator))
		}
		return &ValidationError{Messages: messages}
	}
	return nil
}
