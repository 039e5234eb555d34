package models

import "strings"

// FirstName returns the first whitespace-separated token of name, or the
// empty string when name is blank.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
