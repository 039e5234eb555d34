// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compose renders personalized WhatsApp messages from templates.
// Substitution is literal and unescaped, and values inserted by an earlier
// rule are visible to the rules that follow it.
package compose

import (
	"strings"

	"affiliatedesk/internal/models"
)

// Recognized placeholders, in the order they are substituted.
const (
	PlaceholderProductName = "[nama produk]"
	PlaceholderProductLink = "[link produk]"
	PlaceholderName        = "{name}"
	PlaceholderLink        = "{link}"
)

// Input is everything a single render needs.
type Input struct {
	Template string

	// RecipientName is the full display name; only its first token is used.
	RecipientName string

	// Product fills the product placeholders when non-nil.
	Product *models.Product

	// Link fills {link} when non-empty. Only the video and sample flows
	// supply one.
	Link string
}

// Render applies the substitution rules to in.Template. Unknown
// placeholders pass through unchanged.
func Render(in Input) string {
	msg := in.Template
	if in.Product != nil {
		msg = strings.ReplaceAll(msg, PlaceholderProductName, in.Product.Name)
		msg = strings.ReplaceAll(msg, PlaceholderProductLink, in.Product.Link)
	}
	msg = strings.ReplaceAll(msg, PlaceholderName, models.FirstName(in.RecipientName))
	if in.Link != "" {
		msg = strings.ReplaceAll(msg, PlaceholderLink, in.Link)
	}
	return msg
}

// WithProduct pre-applies only the product placeholders. The broadcast
// flow does this once before personalizing the result per recipient.
func WithProduct(tmpl string, product *models.Product) string {
	if product == nil {
		return tmpl
	}
	tmpl = strings.ReplaceAll(tmpl, PlaceholderProductName, product.Name)
	return strings.ReplaceAll(tmpl, PlaceholderProductLink, product.Link)
}

// Personalize replaces {name} with the first token of name.
func Personalize(tmpl, name string) string {
	return strings.ReplaceAll(tmpl, PlaceholderName, models.FirstName(name))
}
