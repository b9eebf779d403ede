package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// registerCustomValidators adds the "ph_mobile" binding rule so request
// structs can validate Philippine mobile numbers at bind time.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("ph_mobile", func(fl validator.FieldLevel) bool {
		return domain.ValidPhone(fl.Field().String())
	})
}
