// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records tracked by the affiliate desk. All
// records are plain values serialized as JSON collections by the store.
package models

import (
	"slices"
	"time"

	"affiliatedesk/internal/tier"
)

// DateLayout is the calendar-date format used for activity and request dates.
const DateLayout = "2006-01-02"

// Affiliate is a marketing partner. Tier is always derived from Followers
// and is recomputed by the store on every write.
type Affiliate struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TikTokAccount string    `json:"tiktok_account"`
	Followers     uint64    `json:"followers"`
	Niche         string    `json:"niche"`
	WhatsApp      string    `json:"whatsapp"`
	Tier          tier.Tier `json:"tier"`
	LastActivity  string    `json:"last_activity"`
	ProductIDs    []string  `json:"productIds"`
}

// FirstName returns the first whitespace-separated token of the name.
func (a Affiliate) FirstName() string {
	return FirstName(a.Name)
}

// HasProduct reports whether the affiliate promotes the given product.
func (a Affiliate) HasProduct(productID string) bool {
	return slices.Contains(a.ProductIDs, productID)
}

// Today returns the current local date formatted with DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}
