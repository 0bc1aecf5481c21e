package auth

import (
	"regexp"
	"unicode/utf8"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// ValidUsername reports whether the username is 3-20 characters of
// letters, digits and underscores.
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidEmail reports whether the email is syntactically plausible.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// StrongPassword reports whether the password is at least 8 characters and
// mixes upper case, lower case, a digit and a symbol.
func StrongPassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		symbolRe.MatchString(password)
}
