package usecase

import "portal/internal/domain/entity"

// Registration form steps.
const (
	RegistrationStepAll      = 0
	RegistrationStepPersonal = 1
	RegistrationStepAccount  = 2
)

// RegistrationUsecase validates the sign-up form.
type RegistrationUsecase interface {
	// Validate checks the fields of one step, or every field for RegistrationStepAll.
	Validate(form entity.RegistrationForm, step int) entity.FieldErrors
}
