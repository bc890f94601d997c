package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/benvon/deerdiary/internal/calendar"
	"github.com/benvon/deerdiary/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Empty values pass: tags are optional on an entry
	if err := Validate.RegisterValidation("weather", validateWeather); err != nil {
		panic(fmt.Sprintf("failed to register weather validator: %v", err))
	}
	if err := Validate.RegisterValidation("mood", validateMood); err != nil {
		panic(fmt.Sprintf("failed to register mood validator: %v", err))
	}
	if err := Validate.RegisterValidation("company", validateCompany); err != nil {
		panic(fmt.Sprintf("failed to register company validator: %v", err))
	}
	if err := Validate.RegisterValidation("month_key", validateMonthKey); err != nil {
		panic(fmt.Sprintf("failed to register month_key validator: %v", err))
	}
	if err := Validate.RegisterValidation("date_key", validateDateKey); err != nil {
		panic(fmt.Sprintf("failed to register date_key validator: %v", err))
	}
}

func validateWeather(fl validator.FieldLevel) bool {
	return ValidateWeather(fl.Field().String()) == nil
}

func validateMood(fl validator.FieldLevel) bool {
	return ValidateMood(fl.Field().String()) == nil
}

func validateCompany(fl validator.FieldLevel) bool {
	return ValidateCompany(fl.Field().String()) == nil
}

func validateMonthKey(fl validator.FieldLevel) bool {
	return ValidateMonthKey(fl.Field().String()) == nil
}

func validateDateKey(fl validator.FieldLevel) bool {
	return ValidateDateKey(fl.Field().String()) == nil
}

// SanitizeText trims whitespace and removes control characters except newline and tab
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateWeather validates an optional weather value
func ValidateWeather(value string) error {
	if value == "" {
		return nil
	}
	if _, ok := models.ResolveOption(models.WeatherOptions, value); !ok {
		return fmt.Errorf("invalid weather: %s (must be 'sunny', 'cloudy', 'rainy', or 'snowy')", value)
	}
	return nil
}

// ValidateMood validates an optional mood value
func ValidateMood(value string) error {
	if value == "" {
		return nil
	}
	if _, ok := models.ResolveOption(models.MoodOptions, value); !ok {
		return fmt.Errorf("invalid mood: %s (must be 'happy', 'loved', 'okay', or 'sad')", value)
	}
	return nil
}

// ValidateCompany validates an optional company value
func ValidateCompany(value string) error {
	if value == "" {
		return nil
	}
	if _, ok := models.ResolveOption(models.CompanyOptions, value); !ok {
		return fmt.Errorf("invalid company: %s (must be 'alone', 'family', 'friends', or 'partner')", value)
	}
	return nil
}

// ValidateMonthKey validates a "YYYY-MM" month key
func ValidateMonthKey(value string) error {
	if _, err := time.Parse("2006-01", value); err != nil {
		return fmt.Errorf("invalid month: %q (must be YYYY-MM)", value)
	}
	return nil
}

// ValidateDateKey validates an "M/D/YYYY" entry date
func ValidateDateKey(value string) error {
	if _, err := time.Parse(calendar.DateLayout, value); err != nil {
		return fmt.Errorf("invalid date: %q (must be M/D/YYYY)", value)
	}
	return nil
}
