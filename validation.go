package goBlog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

const (
	minPasswordLength = 3
	maxPasswordLength = 20
)

// Field messages rendered by the signup and content forms.
const (
	MsgInvalidUsername   = "That's not a valid username."
	MsgInvalidPassword   = "That wasn't a valid password."
	MsgPasswordMismatch  = "Your passwords didn't match."
	MsgInvalidEmail      = "That's not a valid email."
	MsgDuplicateUsername = "That user already exists."
	MsgMissingPost       = "Please insert subject and content!"
	MsgInvalidComment    = "Comment invalid"
)

// ValidUsername reports whether username is 3-20 characters of letters,
// digits, underscore or hyphen.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidPassword reports whether password is 3-20 characters long. Any
// character is allowed.
func ValidPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= minPasswordLength && n <= maxPasswordLength
}

// ValidEmail reports whether email is empty or shaped like local@domain.tld.
func ValidEmail(email string) bool {
	return email == "" || emailPattern.MatchString(email)
}

// FoldUsername returns the canonical form used for storage and lookup.
func FoldUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateCredentials(username, password, email string) *ValidationError {
	verr := newValidationError()
	if !ValidUsername(username) {
		verr.add(FieldUsername, MsgInvalidUsername)
	}
	if !ValidPassword(password) {
		verr.add(FieldPassword, MsgInvalidPassword)
	}
	if !ValidEmail(email) {
		verr.add(FieldEmail, MsgInvalidEmail)
	}
	if verr.empty() {
		return nil
	}
	return verr
}

func validatePostFields(subject, content string) *ValidationError {
	verr := newValidationError()
	if strings.TrimSpace(subject) == "" {
		verr.add(FieldSubject, MsgMissingPost)
	}
	if strings.TrimSpace(content) == "" {
		verr.add(FieldContent, MsgMissingPost)
	}
	if verr.empty() {
		return nil
	}
	return verr
}

func validateCommentText(text string) *ValidationError {
	if strings.TrimSpace(text) != "" {
		return nil
	}
	verr := newValidationError()
	verr.add(FieldComment, MsgInvalidComment)
	return verr
}
