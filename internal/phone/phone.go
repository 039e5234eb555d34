// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package phone normalizes WhatsApp numbers. Numbers are stored in
// international format and reduced to bare digits when a deep link is built.
package phone

import "strings"

const (
	localPrefix   = "08"
	countryPrefix = "+62"
)

// Normalize trims the number and rewrites a leading local "08" prefix to
// the Indonesian international form "+628". No further validation is done.
func Normalize(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, localPrefix) {
		return countryPrefix + number[1:]
	}
	return number
}

// Digits strips every non-digit character, including the leading "+".
func Digits(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
