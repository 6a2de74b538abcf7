package entity

// RegistrationForm carries every field of the two-step sign-up form.
type RegistrationForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	MobileNo        string `json:"mobileNo"`
	Gender          string `json:"gender"`
	IDPassportNo    string `json:"idPassportNo"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// FullName joins first and last name for the account display name.
func (f RegistrationForm) FullName() string {
	switch {
	case f.FirstName == "":
		return f.LastName
	case f.LastName == "":
		return f.FirstName
	default:
		return f.FirstName + " " + f.LastName
	}
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}
