// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"affiliatedesk/internal/contenttree"
	"affiliatedesk/internal/models"
)

// ErrInvalidParent is returned when a content item would be attached to a
// link, or to a category that lives in another forest.
var ErrInvalidParent = errors.New("parent must be a category in the same content bank")

// ErrHasChildren is returned when a category with children would be
// turned into a link.
var ErrHasChildren = errors.New("category still has children")

// ContentStore manages the content bank forests.
type ContentStore struct {
	c *Collection[models.ContentItem]
}

func newContentStore(adapter Adapter) *ContentStore {
	return &ContentStore{
		c: newCollection(adapter, KeyContentBank, func(it models.ContentItem) string { return it.ID }),
	}
}

// List returns every content item across all forests.
func (s *ContentStore) List() []models.ContentItem {
	return s.c.All()
}

// Find returns the item with the given id.
func (s *ContentStore) Find(id string) (models.ContentItem, bool) {
	return s.c.Find(id)
}

// Tree returns the nested forest for one scope. An empty affiliateID
// selects the internal forest.
func (s *ContentStore) Tree(affiliateID string) []contenttree.Node {
	return contenttree.Build(s.c.All(), affiliateID)
}

// Children returns the direct children of parentID within one scope.
func (s *ContentStore) Children(parentID, affiliateID string) []models.ContentItem {
	return contenttree.Children(s.c.All(), parentID, affiliateID)
}

// checkParent validates the parent of it against items.
func checkParent(items []models.ContentItem, it models.ContentItem) error {
	if it.ParentID == "" {
		return nil
	}
	i := slices.IndexFunc(items, func(v models.ContentItem) bool { return v.ID == it.ParentID })
	if i < 0 {
		return fmt.Errorf("find parent %s: %w", it.ParentID, ErrNotFound)
	}
	if parent := items[i]; !parent.IsCategory() || parent.AffiliateID != it.AffiliateID {
		return ErrInvalidParent
	}
	return nil
}

func normalizeContent(it models.ContentItem) models.ContentItem {
	it.Name = strings.TrimSpace(it.Name)
	it.Link = strings.TrimSpace(it.Link)
	if it.IsCategory() {
		it.Link = ""
	}
	return it
}

// Create assigns a fresh id and appends the item after checking that its
// parent, if any, is a category in the same scope.
func (s *ContentStore) Create(ctx context.Context, it models.ContentItem) (models.ContentItem, error) {
	it = normalizeContent(it)
	it.ID = uuid.NewString()
	err := s.c.AppendChecked(ctx, it, func(items []models.ContentItem) error {
		return checkParent(items, it)
	})
	if err != nil {
		return models.ContentItem{}, err
	}
	return it, nil
}

// Update replaces the item with the same id. Parent and scope are kept
// from the stored record; only name, type and link change. It reports
// false when the id is unknown.
func (s *ContentStore) Update(ctx context.Context, it models.ContentItem) (bool, error) {
	old, ok := s.c.Find(it.ID)
	if !ok {
		return false, nil
	}
	it.ParentID = old.ParentID
	it.AffiliateID = old.AffiliateID
	it = normalizeContent(it)
	if old.IsCategory() && !it.IsCategory() && len(s.Children(old.ID, old.AffiliateID)) > 0 {
		return false, ErrHasChildren
	}
	return s.c.Replace(ctx, it), nil
}

// Delete removes the item and every transitive descendant in one write,
// returning the removed ids. Unknown ids remove nothing. The descendant
// set is computed from the same records the removal applies to.
func (s *ContentStore) Delete(ctx context.Context, id string) []string {
	removed := s.c.RemoveMatching(ctx, func(items []models.ContentItem) func(models.ContentItem) bool {
		if !slices.ContainsFunc(items, func(it models.ContentItem) bool { return it.ID == id }) {
			return nil
		}
		doomed := contenttree.Descendants(items, id)
		doomed[id] = struct{}{}
		return func(it models.ContentItem) bool {
			_, hit := doomed[it.ID]
			return hit
		}
	})
	return itemIDs(removed)
}

// DeleteScope removes an affiliate's whole forest.
func (s *ContentStore) DeleteScope(ctx context.Context, affiliateID string) []string {
	if affiliateID == "" {
		return nil
	}
	removed := s.c.RemoveFunc(ctx, func(it models.ContentItem) bool {
		return it.AffiliateID == affiliateID
	})
	return itemIDs(removed)
}

func itemIDs(items []models.ContentItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
