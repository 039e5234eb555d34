// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"affiliatedesk/internal/models"
)

// ProductStore manages products.
type ProductStore struct {
	c *Collection[models.Product]
}

func newProductStore(adapter Adapter) *ProductStore {
	return &ProductStore{
		c: newCollection(adapter, KeyProducts, func(p models.Product) string { return p.ID }),
	}
}

// List returns all products in insertion order.
func (s *ProductStore) List() []models.Product {
	return s.c.All()
}

// Count returns the number of products.
func (s *ProductStore) Count() int {
	return s.c.Len()
}

// Find returns the product with the given id.
func (s *ProductStore) Find(id string) (models.Product, bool) {
	return s.c.Find(id)
}

// FindByName returns the product with exactly the given name.
func (s *ProductStore) FindByName(name string) (models.Product, bool) {
	return s.c.FindFunc(func(p models.Product) bool { return p.Name == name })
}

// Create assigns a fresh id and appends the product.
func (s *ProductStore) Create(ctx context.Context, p models.Product) models.Product {
	p.ID = uuid.NewString()
	p.Name = strings.TrimSpace(p.Name)
	p.Link = strings.TrimSpace(p.Link)
	s.c.Append(ctx, p)
	return p
}

// Update replaces the product with the same id. Unknown ids are ignored.
func (s *ProductStore) Update(ctx context.Context, p models.Product) bool {
	p.Name = strings.TrimSpace(p.Name)
	p.Link = strings.TrimSpace(p.Link)
	return s.c.Replace(ctx, p)
}

// Delete removes the product. Use Store.DeleteProduct to also unlink it
// from affiliates.
func (s *ProductStore) Delete(ctx context.Context, id string) bool {
	return s.c.Remove(ctx, id)
}
