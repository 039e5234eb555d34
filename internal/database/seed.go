package database

import (
	"context"
	"fmt"
	"log/slog"

	"affiliatedesk/internal/models"
	"affiliatedesk/internal/store"
)

// SeedData is the development data installed on first run.
func SeedData() store.Snapshot {
	return store.Snapshot{
		Affiliates: []models.Affiliate{
			{
				ID: "aff-1", Name: "Andhika", TikTokAccount: "@mentari", Followers: 1600,
				Niche: "Fashion", WhatsApp: "+6281227032108", LastActivity: "2025-10-28",
				ProductIDs: []string{"prod-1"},
			},
			{
				ID: "aff-2", Name: "Ayu Sari", TikTokAccount: "@ayusari_fit", Followers: 12500,
				Niche: "Health & Beauty", WhatsApp: "+6281234567890", LastActivity: "2025-10-25",
				ProductIDs: []string{"prod-2"},
			},
		},
		Products: []models.Product{
			{ID: "prod-1", Name: "Serum Wajah Vitamin C", Link: "https://tokopedia.link/serum-vitc"},
			{ID: "prod-2", Name: `Matte Lipstick Shade "Ruby"`, Link: "https://tokopedia.link/lipstick-ruby"},
		},
		Samples: []models.Sample{
			{ID: "sample-1", Name: "Andhika", ProductName: "Serum Wajah Vitamin C", RequestDate: "2025-10-15", Status: models.SampleShipped},
			{ID: "sample-2", Name: "Ayu Sari", ProductName: `Matte Lipstick Shade "Ruby"`, RequestDate: "2025-10-20", Status: models.SampleProcessing},
		},
	}
}

// Seed installs SeedData when the store was loaded empty. It is a no-op
// once anything has been persisted.
func Seed(ctx context.Context, st *store.Store) error {
	if !st.Fresh() {
		slog.Info("store already seeded, skipping")
		return nil
	}

	st.Import(ctx, SeedData())
	if err := st.Flush(ctx); err != nil {
		return fmt.Errorf("seed flush: %w", err)
	}

	slog.Info("store seeded with development data",
		"affiliates", st.Affiliates.Count(),
		"products", st.Products.Count(),
	)
	return nil
}
