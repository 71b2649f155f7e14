package common

import "strings"

// RedactEmail keeps the first two characters of the local part and the
// domain, e.g. "alice@example.com" -> "al***@example.com".
func RedactEmail(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// RedactToken returns a placeholder for bearer tokens in logs.
func RedactToken() string { return "[REDACTED_TOKEN]" }

// RedactPassword returns a placeholder for passwords in logs.
func RedactPassword() string { return "[REDACTED_PASSWORD]" }
