package store

import (
	"context"

	"item-listing/catalog"
	models "item-listing/model"
)

// StaticStore serves the compiled-in catalog.
type StaticStore struct{}

func NewStaticStore() *StaticStore { return &StaticStore{} }

func (StaticStore) Collections(context.Context) ([]models.Collection, error) {
	return catalog.Default(), nil
}

func (StaticStore) SetSoldOut(context.Context, string, bool) error { return ErrReadOnly }

func (StaticStore) Close() error { return nil }
