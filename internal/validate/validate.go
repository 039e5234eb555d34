// Package validate checks operator input at the boundary before any record
// is written. Every function returns the first user-facing problem found,
// or the empty string when the input is acceptable.
package validate

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"affiliatedesk/internal/models"
)

// Validation limits for free-text fields.
const (
	maxNameLen     = 200
	maxLinkLen     = 2_000
	maxTemplateLen = 4_000
)

// Affiliate checks the fields required to add or edit an affiliate.
func Affiliate(a models.Affiliate) string {
	if strings.TrimSpace(a.Name) == "" ||
		strings.TrimSpace(a.TikTokAccount) == "" ||
		strings.TrimSpace(a.Niche) == "" ||
		strings.TrimSpace(a.WhatsApp) == "" {
		return "Please fill all fields."
	}
	if a.Followers == 0 {
		return "Followers must be greater than zero."
	}
	if utf8.RuneCountInString(a.Name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// Product checks a product's name and link.
func Product(p models.Product) string {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Link) == "" {
		return "Please fill all fields."
	}
	if utf8.RuneCountInString(p.Name) > maxNameLen {
		return "Product name is too long (max 200 characters)."
	}
	if !IsAbsoluteURL(p.Link) {
		return "Please enter a valid URL for the product link."
	}
	return ""
}

// Sample checks a sample request.
func Sample(s models.Sample) string {
	if strings.TrimSpace(s.Name) == "" ||
		(strings.TrimSpace(s.ProductID) == "" && strings.TrimSpace(s.ProductName) == "") ||
		strings.TrimSpace(s.RequestDate) == "" {
		return "Please fill all fields."
	}
	if !s.Status.Valid() {
		return "Unknown sample status."
	}
	if !IsDate(s.RequestDate) {
		return "Request date must use the YYYY-MM-DD format."
	}
	return ""
}

// ContentItem checks a content bank node. A link is required for, and
// only checked on, items of type link.
func ContentItem(c models.ContentItem) string {
	if strings.TrimSpace(c.Name) == "" {
		return "Please fill all required fields."
	}
	switch c.Type {
	case models.ContentCategory:
	case models.ContentLink:
		if strings.TrimSpace(c.Link) == "" {
			return "Please fill all required fields."
		}
		if !IsAbsoluteURL(c.Link) {
			return "Please enter a valid URL."
		}
	default:
		return "Content type must be category or link."
	}
	if utf8.RuneCountInString(c.Name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	return ""
}

// Template checks a message template before it is composed.
func Template(tmpl string) string {
	if strings.TrimSpace(tmpl) == "" {
		return "Please write a message."
	}
	if utf8.RuneCountInString(tmpl) > maxTemplateLen {
		return "Message is too long (max 4,000 characters)."
	}
	return ""
}

// IsAbsoluteURL reports whether raw parses as an absolute URL with a scheme
// and either a host or an opaque part.
func IsAbsoluteURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || utf8.RuneCountInString(raw) > maxLinkLen {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// IsDate reports whether s is a calendar date in models.DateLayout.
func IsDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
