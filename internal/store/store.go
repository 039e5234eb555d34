// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"affiliatedesk/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// TopAffiliatesLimit is how many affiliates the dashboard ranks.
const TopAffiliatesLimit = 5

// Store groups every record collection behind one adapter.
type Store struct {
	Affiliates *AffiliateStore
	Products   *ProductStore
	Samples    *SampleStore
	Content    *ContentStore
	Broadcasts *Log[models.Broadcast]
	Reminders  *Log[models.Reminder]
	Treatments *Log[models.Treatment]

	adapter Adapter
	fresh   atomic.Bool
}

// New creates an empty store. Call Load to read persisted data.
func New(adapter Adapter) *Store {
	s := &Store{
		Affiliates: newAffiliateStore(adapter),
		Products:   newProductStore(adapter),
		Samples:    newSampleStore(adapter),
		Content:    newContentStore(adapter),
		Broadcasts: newBroadcastLog(adapter),
		Reminders:  newReminderLog(adapter),
		Treatments: newTreatmentLog(adapter),
		adapter:    adapter,
	}
	s.fresh.Store(true)
	return s
}

type loader interface {
	load(ctx context.Context) (bool, error)
	flush(ctx context.Context) error
	Key() string
}

func (s *Store) collections() []loader {
	return []loader{
		s.Affiliates.c, s.Products.c, s.Samples.c, s.Content.c,
		s.Broadcasts.c, s.Reminders.c, s.Treatments.c,
	}
}

// Load reads every collection from the adapter in parallel, then brings
// older records up to the current schema: tiers are re-derived from
// follower counts and samples that only name their product get its id.
func (s *Store) Load(ctx context.Context) error {
	cols := s.collections()
	found := make([]bool, len(cols))

	g, gctx := errgroup.WithContext(ctx)
	for i, col := range cols {
		g.Go(func() error {
			ok, err := col.load(gctx)
			found[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	fresh := true
	for _, ok := range found {
		if ok {
			fresh = false
			break
		}
	}
	s.fresh.Store(fresh)

	if n := s.Affiliates.rederive(ctx); n > 0 {
		slog.Info("re-derived affiliate tiers", "count", n)
	}
	if n := s.Samples.resolveProducts(ctx, s.Products); n > 0 {
		slog.Info("resolved legacy sample products", "count", n)
	}
	return nil
}

// Fresh reports whether the last Load found no persisted data at all.
func (s *Store) Fresh() bool {
	return s.fresh.Load()
}

// Flush rewrites every collection to the adapter and returns all
// failures joined.
func (s *Store) Flush(ctx context.Context) error {
	var errs []error
	for _, col := range s.collections() {
		if err := col.flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeleteAffiliate removes the affiliate together with its content bank.
// Samples keep their name snapshot.
func (s *Store) DeleteAffiliate(ctx context.Context, id string) bool {
	if !s.Affiliates.Delete(ctx, id) {
		return false
	}
	if removed := s.Content.DeleteScope(ctx, id); len(removed) > 0 {
		slog.Info("removed affiliate content bank", "affiliate", id, "items", len(removed))
	}
	return true
}

// DeleteProduct removes the product and unlinks it from every affiliate.
// Samples keep the dangling product id.
func (s *Store) DeleteProduct(ctx context.Context, id string) bool {
	if !s.Products.Delete(ctx, id) {
		return false
	}
	s.Affiliates.unlinkProduct(ctx, id)
	return true
}

// Stats is the dashboard summary.
type Stats struct {
	TotalAffiliates   int                `json:"total_affiliates"`
	ActiveSamples     int                `json:"active_samples"`
	TotalProducts     int                `json:"total_products"`
	TopAffiliates     []models.Affiliate `json:"top_affiliates"`
	NicheDistribution map[string]int     `json:"niche_distribution"`
}

// Dashboard computes the summary shown on the home screen.
func (s *Store) Dashboard() Stats {
	return Stats{
		TotalAffiliates:   s.Affiliates.Count(),
		ActiveSamples:     s.Samples.ActiveCount(),
		TotalProducts:     s.Products.Count(),
		TopAffiliates:     s.Affiliates.Top(TopAffiliatesLimit),
		NicheDistribution: s.Affiliates.NicheDistribution(),
	}
}

// Snapshot is every collection at one point in time.
type Snapshot struct {
	Affiliates []models.Affiliate   `json:"affiliators"`
	Samples    []models.Sample      `json:"samples"`
	Products   []models.Product     `json:"products"`
	Content    []models.ContentItem `json:"contentBank"`
	Broadcasts []models.Broadcast   `json:"broadcasts,omitempty"`
	Reminders  []models.Reminder    `json:"reminders,omitempty"`
	Treatments []models.Treatment   `json:"treatments,omitempty"`
}

// Export copies every collection.
func (s *Store) Export() Snapshot {
	return Snapshot{
		Affiliates: s.Affiliates.c.All(),
		Samples:    s.Samples.c.All(),
		Products:   s.Products.c.All(),
		Content:    s.Content.c.All(),
		Broadcasts: s.Broadcasts.c.All(),
		Reminders:  s.Reminders.c.All(),
		Treatments: s.Treatments.c.All(),
	}
}

// Import replaces every collection with the snapshot's contents and
// persists them. Affiliate tiers are re-derived on the way in.
func (s *Store) Import(ctx context.Context, snap Snapshot) {
	affs := make([]models.Affiliate, 0, len(snap.Affiliates))
	for _, a := range snap.Affiliates {
		affs = append(affs, normalizeAffiliate(a))
	}
	s.Affiliates.c.Reset(ctx, affs)
	s.Products.c.Reset(ctx, snap.Products)
	s.Samples.c.Reset(ctx, snap.Samples)
	s.Content.c.Reset(ctx, snap.Content)
	s.Broadcasts.c.Reset(ctx, snap.Broadcasts)
	s.Reminders.c.Reset(ctx, snap.Reminders)
	s.Treatments.c.Reset(ctx, snap.Treatments)
	s.Samples.resolveProducts(ctx, s.Products)
	s.fresh.Store(false)
}
