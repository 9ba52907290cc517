package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/cardapp/internal/assets"
)

type customRule struct {
	tag     string
	fn      validator.Func
	message string
}

// Field names in messages are the dotted keys of the config file, e.g. export.markdown_template.
var customRules = []customRule{
	{
		tag:     "cards_file",
		fn:      isCardsFilePath,
		message: "{0} must be the path of a .json file, got {1}",
	},
	{
		tag:     "deck_template",
		fn:      isDeckTemplate,
		message: "{0} must be a readable deck template, got {1}",
	},
	{
		tag:     "idle_conns",
		message: "{0} cannot be greater than database.max_open_conns",
	},
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range customRules {
		if rule.fn != nil {
			if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
				return nil, nil, fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
			}
		}
		if err := registerTranslation(validate, trans, rule); err != nil {
			return nil, nil, err
		}
	}
	validate.RegisterStructValidation(validateDatabasePool, DatabaseConfig{})

	return validate, trans, nil
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, rule customRule) error {
	if err := validate.RegisterTranslation(rule.tag, trans, func(ut ut.Translator) error {
		return ut.Add(rule.tag, rule.message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(rule.tag, configKey(fe), fmt.Sprintf("%q", fe.Value()))
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", rule.tag, err)
	}
	return nil
}

// configKey turns a namespace like Config.export.markdown_template into export.markdown_template.
func configKey(fe validator.FieldError) string {
	return strings.TrimPrefix(fe.Namespace(), "Config.")
}

func isCardsFilePath(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return false
	}
	info, err := os.Stat(path)
	return err != nil || !info.IsDir()
}

func isDeckTemplate(fl validator.FieldLevel) bool {
	return assets.CheckDeckTemplate(fl.Field().String()) == nil
}

func validateDatabasePool(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.MaxOpenConns > 0 && db.MaxIdleConns > db.MaxOpenConns {
		sl.ReportError(db.MaxIdleConns, "max_idle_conns", "MaxIdleConns", "idle_conns", "")
	}
}
