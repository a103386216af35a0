package httpx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var steamIDPattern = regexp.MustCompile(`^7656119\d{10}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("steamid", validateSteamID)
	validate.RegisterValidation("game_status", validateGameStatus)
	validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// validateSteamID accepts 64-bit SteamIDs, which are 17 digits starting
// with the 7656119 individual-account prefix.
func validateSteamID(fl validator.FieldLevel) bool {
	return steamIDPattern.MatchString(fl.Field().String())
}

func validateGameStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "planning", "playing", "paused", "dropped", "finished":
		return true
	}
	return false
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`).MatchString(password)

	return hasUpper && hasLower && hasNumber && hasSpecial
}

func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []ErrorDetail
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", field, param)
		case "steamid":
			message = fmt.Sprintf("%s must be a valid 64-bit SteamID", field)
		case "game_status":
			message = fmt.Sprintf("%s must be one of planning, playing, paused, dropped, finished", field)
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		case "gte", "lte":
			message = fmt.Sprintf("%s must be between %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		details = append(details, ErrorDetail{
			Field:   fieldName,
			Message: message,
		})
	}

	return details
}
