// Package validator wraps a shared go-playground validator instance with
// the catalog's custom tag validations.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	registerCustomValidations()
}

func registerCustomValidations() {
	// Category validation
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"real_estate", "vehicle", "heavy_vehicle", "motorcycle", ""}
		for _, c := range validCategories {
			if category == c {
				return true
			}
		}
		return false
	})

}

// Struct validates a struct using the shared instance.
func Struct(s interface{}) error {
	return validate.Struct(s)
}
