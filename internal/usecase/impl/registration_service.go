package impl

import (
	"regexp"
	"strings"

	"portal/internal/domain/entity"
	"portal/internal/usecase"
)

var (
	emailPattern     = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
	mobileDigits     = regexp.MustCompile(`^\d{10}$`)
	upperPattern     = regexp.MustCompile(`[A-Z]`)
	lowerPattern     = regexp.MustCompile(`[a-z]`)
	digitPattern     = regexp.MustCompile(`\d`)
	minPasswordRunes = 8
)

type registrationService struct{}

// NewRegistrationService creates the sign-up form validator.
func NewRegistrationService() usecase.RegistrationUsecase {
	return &registrationService{}
}

func (srv *registrationService) Validate(form entity.RegistrationForm, step int) entity.FieldErrors {
	errs := entity.FieldErrors{}

	if step == usecase.RegistrationStepAll || step == usecase.RegistrationStepPersonal {
		validatePersonal(form, errs)
	}
	if step == usecase.RegistrationStepAll || step == usecase.RegistrationStepAccount {
		validateAccount(form, errs, step == usecase.RegistrationStepAll)
	}

	return errs
}

func validatePersonal(form entity.RegistrationForm, errs entity.FieldErrors) {
	if blank(form.FirstName) {
		errs["firstName"] = "First name is required"
	}
	if blank(form.LastName) {
		errs["lastName"] = "Last name is required"
	}

	switch {
	case blank(form.Email):
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(form.Email):
		errs["email"] = "Please enter a valid email"
	}

	switch {
	case blank(form.MobileNo):
		errs["mobileNo"] = "Mobile number is required"
	case !mobileDigits.MatchString(nonDigitPattern.ReplaceAllString(form.MobileNo, "")):
		errs["mobileNo"] = "Please enter a valid mobile number"
	}

	if form.Gender == "" {
		errs["gender"] = "Gender is required"
	}
	if blank(form.IDPassportNo) {
		errs["idPassportNo"] = "ID/Passport Number is required"
	}
}

// validateAccount only checks the character mix when the whole form is submitted.
func validateAccount(form entity.RegistrationForm, errs entity.FieldErrors, strict bool) {
	switch {
	case form.Password == "":
		errs["password"] = "Password is required"
	case len([]rune(form.Password)) < minPasswordRunes:
		errs["password"] = "Password must be at least 8 characters"
	case strict && (!upperPattern.MatchString(form.Password) || !lowerPattern.MatchString(form.Password) || !digitPattern.MatchString(form.Password)):
		errs["password"] = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}

	if form.Password != form.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if !form.AgreeToTerms {
		errs["agreeToTerms"] = "You must agree to the terms and conditions"
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
