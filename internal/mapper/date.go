package mapper

import "strings"

// FormatDate turns "DD-MM-YYYY[ HH:mm:ss[ ±HH:MM]]" into "YYYY-MM-DD".
// Anything else, including the empty string, is returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	datePart := strings.Split(strings.TrimSpace(s), " ")[0]
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 || len(parts[2]) != 4 || len(parts[0]) > 2 || parts[0] == "" || parts[1] == "" {
		return s
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// datePart drops the time portion of a source timestamp
func datePart(s string) string {
	return strings.Split(s, " ")[0]
}
