package impl

import (
	"testing"

	"portal/internal/domain/entity"
	"portal/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func validForm() entity.RegistrationForm {
	return entity.RegistrationForm{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		MobileNo:        "0712 345 678",
		Gender:          "female",
		IDPassportNo:    "12345678",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		AgreeToTerms:    true,
	}
}

func TestRegistrationService_ValidFormPasses(t *testing.T) {
	svc := NewRegistrationService()

	for _, step := range []int{usecase.RegistrationStepAll, usecase.RegistrationStepPersonal, usecase.RegistrationStepAccount} {
		assert.True(t, svc.Validate(validForm(), step).Empty(), "step %d", step)
	}
}

func TestRegistrationService_EmptyFormMessages(t *testing.T) {
	svc := NewRegistrationService()

	errs := svc.Validate(entity.RegistrationForm{}, usecase.RegistrationStepAll)

	assert.Equal(t, entity.FieldErrors{
		"firstName":    "First name is required",
		"lastName":     "Last name is required",
		"email":        "Email is required",
		"mobileNo":     "Mobile number is required",
		"gender":       "Gender is required",
		"idPassportNo": "ID/Passport Number is required",
		"password":     "Password is required",
		"agreeToTerms": "You must agree to the terms and conditions",
	}, errs)
}

func TestRegistrationService_FieldRules(t *testing.T) {
	svc := NewRegistrationService()

	cases := []struct {
		name    string
		mutate  func(*entity.RegistrationForm)
		step    int
		field   string
		message string
	}{
		{"blank first name", func(f *entity.RegistrationForm) { f.FirstName = "   " }, usecase.RegistrationStepPersonal, "firstName", "First name is required"},
		{"invalid email", func(f *entity.RegistrationForm) { f.Email = "jane@example" }, usecase.RegistrationStepPersonal, "email", "Please enter a valid email"},
		{"short mobile", func(f *entity.RegistrationForm) { f.MobileNo = "+254 712" }, usecase.RegistrationStepPersonal, "mobileNo", "Please enter a valid mobile number"},
		{"long mobile", func(f *entity.RegistrationForm) { f.MobileNo = "254712345678" }, usecase.RegistrationStepAll, "mobileNo", "Please enter a valid mobile number"},
		{"short password", func(f *entity.RegistrationForm) { f.Password, f.ConfirmPassword = "Ab1", "Ab1" }, usecase.RegistrationStepAccount, "password", "Password must be at least 8 characters"},
		{"weak password", func(f *entity.RegistrationForm) { f.Password, f.ConfirmPassword = "lowercase1", "lowercase1" }, usecase.RegistrationStepAll, "password", "Password must contain at least one uppercase letter, one lowercase letter, and one number"},
		{"mismatch", func(f *entity.RegistrationForm) { f.ConfirmPassword = "Secret124" }, usecase.RegistrationStepAccount, "confirmPassword", "Passwords do not match"},
		{"terms", func(f *entity.RegistrationForm) { f.AgreeToTerms = false }, usecase.RegistrationStepAccount, "agreeToTerms", "You must agree to the terms and conditions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mutate(&form)

			errs := svc.Validate(form, tc.step)
			assert.Equal(t, entity.FieldErrors{tc.field: tc.message}, errs)
		})
	}
}

func TestRegistrationService_StepsAreIndependent(t *testing.T) {
	svc := NewRegistrationService()

	form := validForm()
	form.FirstName = ""
	form.Password = "lowercase1"
	form.ConfirmPassword = "lowercase1"

	assert.Equal(t, entity.FieldErrors{"firstName": "First name is required"}, svc.Validate(form, usecase.RegistrationStepPersonal))
	// The character mix is only enforced when the whole form is submitted.
	assert.True(t, svc.Validate(form, usecase.RegistrationStepAccount).Empty())
	assert.Len(t, svc.Validate(form, usecase.RegistrationStepAll), 2)
}
