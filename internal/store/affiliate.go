// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"affiliatedesk/internal/models"
	"affiliatedesk/internal/phone"
	"affiliatedesk/internal/tier"
)

// AffiliateStore manages affiliate records.
type AffiliateStore struct {
	c *Collection[models.Affiliate]
}

func newAffiliateStore(adapter Adapter) *AffiliateStore {
	return &AffiliateStore{
		c: newCollection(adapter, KeyAffiliates, func(a models.Affiliate) string { return a.ID }),
	}
}

// normalizeAffiliate applies the write-time rules: derived tier,
// international phone format, "@" handle prefix and a non-nil product set.
func normalizeAffiliate(a models.Affiliate) models.Affiliate {
	a.Name = strings.TrimSpace(a.Name)
	a.Niche = strings.TrimSpace(a.Niche)
	a.Tier = tier.Classify(a.Followers)
	a.WhatsApp = phone.Normalize(a.WhatsApp)
	a.TikTokAccount = strings.TrimSpace(a.TikTokAccount)
	if a.TikTokAccount != "" && !strings.HasPrefix(a.TikTokAccount, "@") {
		a.TikTokAccount = "@" + a.TikTokAccount
	}
	if a.ProductIDs == nil {
		a.ProductIDs = []string{}
	} else {
		a.ProductIDs = slices.Clone(a.ProductIDs)
	}
	return a
}

// List returns all affiliates in insertion order.
func (s *AffiliateStore) List() []models.Affiliate {
	return s.c.All()
}

// Count returns the number of affiliates.
func (s *AffiliateStore) Count() int {
	return s.c.Len()
}

// Find returns the affiliate with the given id.
func (s *AffiliateStore) Find(id string) (models.Affiliate, bool) {
	return s.c.Find(id)
}

// FindByName returns the first affiliate whose name matches,
// ignoring case and surrounding whitespace.
func (s *AffiliateStore) FindByName(name string) (models.Affiliate, bool) {
	name = strings.TrimSpace(name)
	return s.c.FindFunc(func(a models.Affiliate) bool {
		return strings.EqualFold(a.Name, name)
	})
}

// Create assigns a fresh id, stamps the activity date when unset and
// appends the affiliate.
func (s *AffiliateStore) Create(ctx context.Context, a models.Affiliate) models.Affiliate {
	a = normalizeAffiliate(a)
	a.ID = uuid.NewString()
	if a.LastActivity == "" {
		a.LastActivity = models.Today()
	}
	s.c.Append(ctx, a)
	return a
}

// Update replaces the affiliate with the same id, recomputing its tier.
// It reports false, changing nothing, when the id is unknown.
func (s *AffiliateStore) Update(ctx context.Context, a models.Affiliate) (models.Affiliate, bool) {
	a = normalizeAffiliate(a)
	if a.LastActivity == "" {
		if old, ok := s.c.Find(a.ID); ok {
			a.LastActivity = old.LastActivity
		}
	}
	if !s.c.Replace(ctx, a) {
		return models.Affiliate{}, false
	}
	return a, true
}

// Touch sets the affiliate's activity date to today without rewriting
// any other field. It reports false when the id is unknown.
func (s *AffiliateStore) Touch(ctx context.Context, id string) bool {
	today := models.Today()
	return s.c.Update(ctx, id, func(a models.Affiliate) (models.Affiliate, bool) {
		if a.LastActivity == today {
			return a, false
		}
		a.LastActivity = today
		return a, true
	})
}

// Delete removes the affiliate. Use Store.DeleteAffiliate to also remove
// the affiliate's content bank.
func (s *AffiliateStore) Delete(ctx context.Context, id string) bool {
	return s.c.Remove(ctx, id)
}

// Search filters by a case-insensitive name substring and, when productID
// is set, by linked product.
func (s *AffiliateStore) Search(query, productID string) []models.Affiliate {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Affiliate
	for _, a := range s.c.All() {
		if query != "" && !strings.Contains(strings.ToLower(a.Name), query) {
			continue
		}
		if productID != "" && !a.HasProduct(productID) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Top returns the n affiliates with the most followers.
func (s *AffiliateStore) Top(n int) []models.Affiliate {
	all := s.c.All()
	slices.SortStableFunc(all, func(a, b models.Affiliate) int {
		return cmp.Compare(b.Followers, a.Followers)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// NicheDistribution counts affiliates per niche.
func (s *AffiliateStore) NicheDistribution() map[string]int {
	out := make(map[string]int)
	for _, a := range s.c.All() {
		out[a.Niche]++
	}
	return out
}

// unlinkProduct removes productID from every affiliate's product set.
func (s *AffiliateStore) unlinkProduct(ctx context.Context, productID string) int {
	return s.c.UpdateAll(ctx, func(a models.Affiliate) (models.Affiliate, bool) {
		if !a.HasProduct(productID) {
			return a, false
		}
		a.ProductIDs = slices.DeleteFunc(slices.Clone(a.ProductIDs), func(id string) bool { return id == productID })
		return a, true
	})
}

// rederive recomputes tiers and fills missing product sets on records
// loaded from older data.
func (s *AffiliateStore) rederive(ctx context.Context) int {
	return s.c.UpdateAll(ctx, func(a models.Affiliate) (models.Affiliate, bool) {
		want := tier.Classify(a.Followers)
		if a.Tier == want && a.ProductIDs != nil {
			return a, false
		}
		a.Tier = want
		if a.ProductIDs == nil {
			a.ProductIDs = []string{}
		}
		return a, true
	})
}
