// Package bookmarks persists the user's saved learning links. It is a
// standalone key-value collaborator with no interaction with the numeric
// core.
package bookmarks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Link is a bookmarked learning resource.
type Link struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists learning links.
type Store interface {
	Save(ctx context.Context, link Link) error
	List(ctx context.Context) ([]Link, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewLink builds a link with a fresh identifier and creation timestamp.
func NewLink(title, url string) Link {
	return Link{
		ID:        uuid.NewString(),
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultLinks returns the starter bookmarks seeded into an empty store.
func DefaultLinks() []Link {
	now := time.Now().UTC()
	return []Link{
		{ID: "default-1", Title: "What is DeFi? A Beginner's Guide", URL: "https://ethereum.org/en/defi/", CreatedAt: now},
		{ID: "default-2", Title: "Understanding Liquidation Risk", URL: "https://docs.aave.com/risk/asset-risk/risk-parameters", CreatedAt: now},
		{ID: "default-3", Title: "DeFi Yield Farming Explained", URL: "https://academy.binance.com/en/articles/what-is-yield-farming-in-decentralized-finance-defi", CreatedAt: now},
	}
}

// Seed inserts the default links when the store is empty.
func Seed(ctx context.Context, store Store) error {
	existing, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, link := range DefaultLinks() {
		if err := store.Save(ctx, link); err != nil {
			return err
		}
	}
	return nil
}
