package service

import (
	"context"
	"io"

	"item-listing/reducer"
	"item-listing/view"
)

type ServiceInterface interface {
	Mount(ctx context.Context, variant view.Variant) (ViewDTO, error)
	Unmount(id string) error
	Render(id string, w io.Writer, links view.Links) (view.Variant, error)
	Click(id string, ctl view.Control) (bool, error)
	Dispatch(id string, action reducer.Action) (ViewDTO, error)
	Snapshot(id string) (ViewDTO, error)
	SetSoldOut(ctx context.Context, name string, soldOut bool) error
}
