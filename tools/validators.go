package tools

import "regexp"

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// CheckPassword devolve o nome do campo problemático ("password") ou vazio.
func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}
