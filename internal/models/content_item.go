// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ContentItemType distinguishes folders from links in the content bank.
type ContentItemType string

const (
	ContentCategory ContentItemType = "category"
	ContentLink     ContentItemType = "link"
)

// ContentItem is one node of the content bank forest. An empty ParentID
// marks a root; an empty AffiliateID places the node in the internal
// forest instead of an affiliate's forest. Link nodes never have children.
type ContentItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        ContentItemType `json:"type"`
	Link        string          `json:"link,omitempty"`
	ParentID    string          `json:"parentId,omitempty"`
	AffiliateID string          `json:"affiliateId,omitempty"`
}

// IsCategory reports whether the item can hold children.
func (c ContentItem) IsCategory() bool {
	return c.Type == ContentCategory
}

// IsRoot reports whether the item has no parent.
func (c ContentItem) IsRoot() bool {
	return c.ParentID == ""
}
