package store

import (
	"context"
	"errors"

	models "item-listing/model"
)

// ErrReadOnly is returned by stores whose catalog cannot change at runtime.
var ErrReadOnly = errors.New("catalog is read-only")

// CatalogStore supplies the collections rendered on the listing page.
type CatalogStore interface {
	Collections(ctx context.Context) ([]models.Collection, error)
	SetSoldOut(ctx context.Context, name string, soldOut bool) error

	Close() error
}
