// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"github.com/google/uuid"

	"affiliatedesk/internal/models"
)

// SampleStore manages product sample requests.
type SampleStore struct {
	c *Collection[models.Sample]
}

func newSampleStore(adapter Adapter) *SampleStore {
	return &SampleStore{
		c: newCollection(adapter, KeySamples, func(s models.Sample) string { return s.ID }),
	}
}

// List returns all samples in insertion order.
func (s *SampleStore) List() []models.Sample {
	return s.c.All()
}

// Find returns the sample with the given id.
func (s *SampleStore) Find(id string) (models.Sample, bool) {
	return s.c.Find(id)
}

// ActiveCount returns how many samples have not been received yet.
func (s *SampleStore) ActiveCount() int {
	n := 0
	for _, sm := range s.c.All() {
		if sm.Active() {
			n++
		}
	}
	return n
}

// Create assigns a fresh id and appends the sample. An empty status
// defaults to Requested.
func (s *SampleStore) Create(ctx context.Context, sm models.Sample) models.Sample {
	sm.ID = uuid.NewString()
	if sm.Status == "" {
		sm.Status = models.SampleRequested
	}
	if sm.RequestDate == "" {
		sm.RequestDate = models.Today()
	}
	s.c.Append(ctx, sm)
	return sm
}

// Update replaces the sample with the same id. Unknown ids are ignored.
func (s *SampleStore) Update(ctx context.Context, sm models.Sample) bool {
	return s.c.Replace(ctx, sm)
}

// SetStatus changes only the status of a sample. Any status may follow
// any other; unknown ids are ignored.
func (s *SampleStore) SetStatus(ctx context.Context, id string, status models.SampleStatus) bool {
	return s.c.Update(ctx, id, func(sm models.Sample) (models.Sample, bool) {
		if sm.Status == status {
			return sm, false
		}
		sm.Status = status
		return sm, true
	})
}

// Delete removes the sample.
func (s *SampleStore) Delete(ctx context.Context, id string) bool {
	return s.c.Remove(ctx, id)
}

// resolveProducts migrates samples written with a product name instead of
// a product id. Names without a matching product are kept as they are.
func (s *SampleStore) resolveProducts(ctx context.Context, products *ProductStore) int {
	return s.c.UpdateAll(ctx, func(sm models.Sample) (models.Sample, bool) {
		if sm.ProductID != "" || sm.ProductName == "" {
			return sm, false
		}
		p, ok := products.FindByName(sm.ProductName)
		if !ok {
			return sm, false
		}
		sm.ProductID = p.ID
		sm.ProductName = ""
		return sm, true
	})
}
