package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func ValidateCreateUser(name, username, email string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	}

	validateUsername(username, errs)
	validateEmail(email, errs)

	return errs
}

// ValidateUpdateUser checks only the fields present in the request; nil
// means the field was not supplied and keeps its stored value.
func ValidateUpdateUser(name, username, email *string) ValidationErrors {
	errs := make(ValidationErrors)

	if name != nil && strings.TrimSpace(*name) == "" {
		errs.Add("name", "Name cannot be empty")
	}
	if username != nil {
		validateUsername(*username, errs)
	}
	if email != nil {
		validateEmail(*email, errs)
	}

	return errs
}

func validateUsername(username string, errs ValidationErrors) {
	switch {
	case username == "":
		errs.Add("username", "Username is required")
	case len(username) < 3:
		errs.Add("username", "Username must be at least 3 characters")
	case len(username) > 30:
		errs.Add("username", "Username must be at most 30 characters")
	case !usernameRegex.MatchString(username):
		errs.Add("username", "Username can only contain letters, numbers, _ . and -")
	}
}

func validateEmail(email string, errs ValidationErrors) {
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}
