package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"item-listing/catalog"
	"item-listing/reducer"
	"item-listing/store"
	"item-listing/view"
)

// ErrViewNotFound is returned for ids that were never mounted, were unmounted,
// or expired.
var ErrViewNotFound = errors.New("view not found")

const (
	DefaultMaxViews = 1024
	DefaultViewTTL  = 30 * time.Minute
)

type Options struct {
	MaxViews int
	ViewTTL  time.Duration
	Logger   *zap.Logger
	Metrics  *Metrics
}

// Service keeps one view.Page per mounted view. Pages are evicted after
// ViewTTL without access or when more than MaxViews are mounted.
type Service struct {
	store   store.CatalogStore
	log     *zap.Logger
	metrics *Metrics
	views   *expirable.LRU[string, *mounted]

	// per-view mutexes so that dispatches to one view never interleave.
	// Keys are view id -> *sync.Mutex
	locks sync.Map
}

// mounted is a registry entry. evicted is set exactly once, by the first
// eviction callback for the entry.
type mounted struct {
	page    *view.Page
	evicted atomic.Bool
}

func NewService(s store.CatalogStore, opts Options) *Service {
	if opts.MaxViews <= 0 {
		opts.MaxViews = DefaultMaxViews
	}
	if opts.ViewTTL <= 0 {
		opts.ViewTTL = DefaultViewTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	svc := &Service{store: s, log: opts.Logger, metrics: opts.Metrics}
	svc.views = expirable.NewLRU[string, *mounted](opts.MaxViews, svc.onEvict, opts.ViewTTL)
	return svc
}

func (s *Service) onEvict(id string, m *mounted) {
	if !m.evicted.CompareAndSwap(false, true) {
		return
	}
	s.locks.Delete(id)
	if s.metrics != nil {
		s.metrics.Active.Dec()
	}
	s.log.Debug("view unmounted", zap.String("view_id", id))
}

// helper: acquire per-view lock. Returns unlock func.
func (s *Service) lockForView(id string) func() {
	if v, ok := s.locks.Load(id); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return m.Unlock
	}
	m := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(id, m)
	mtx := actual.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}

// page returns a locked page and refreshes its idle timer.
func (s *Service) page(id string) (*view.Page, func(), error) {
	m, ok := s.views.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	unlock := s.lockForView(id)

	// the view may have been unmounted or expired while we waited
	if cur, ok := s.views.Peek(id); !ok || cur != m || m.evicted.Load() {
		unlock()
		return nil, nil, fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	s.views.Add(id, m)
	if m.evicted.Load() {
		// evicted between Peek and Add: drop the entry Add put back
		s.views.Remove(id)
		unlock()
		return nil, nil, fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	return m.page, unlock, nil
}

func (s *Service) Mount(ctx context.Context, variant view.Variant) (ViewDTO, error) {
	if _, err := view.ParseVariant(string(variant)); err != nil {
		return ViewDTO{}, err
	}
	collections, err := s.store.Collections(ctx)
	if err != nil {
		return ViewDTO{}, fmt.Errorf("load catalog: %w", err)
	}
	id := uuid.NewString()
	p := view.NewPage(variant, collections)
	s.views.Add(id, &mounted{page: p})
	if s.metrics != nil {
		s.metrics.Mounted.Inc()
		s.metrics.Active.Inc()
	}
	s.log.Info("view mounted", zap.String("view_id", id), zap.String("variant", string(variant)))
	s.log.Debug("catalog snapshot",
		zap.String("view_id", id),
		zap.Int("collections", len(collections)),
		zap.Strings("shared", catalog.SharedNames(collections)),
		zap.Int("sold_out", len(catalog.SoldOut(collections))),
	)
	return toDTO(id, p), nil
}

// Unmount waits for in-flight calls on the view, then drops it.
func (s *Service) Unmount(id string) error {
	if !s.views.Contains(id) {
		return fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	unlock := s.lockForView(id)
	defer unlock()
	if !s.views.Remove(id) {
		return fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	return nil
}

// Render writes the page's HTML. The page is rendered under its view lock, so
// the output reflects a state between two dispatches, never during one.
func (s *Service) Render(id string, w io.Writer, links view.Links) (view.Variant, error) {
	p, unlock, err := s.page(id)
	if err != nil {
		return "", err
	}
	defer unlock()
	return p.Variant(), p.Render(w, links)
}

// Click routes a control activation through the item card. Sold-out
// add-to-cart clicks are dropped by the card and reported as not dispatched.
func (s *Service) Click(id string, ctl view.Control) (bool, error) {
	p, unlock, err := s.page(id)
	if err != nil {
		return false, err
	}
	defer unlock()

	dispatched, err := p.Click(ctl)
	if err != nil {
		return false, err
	}
	if !dispatched {
		if s.metrics != nil {
			s.metrics.Suppressed.Inc()
		}
		s.log.Debug("sold-out add to cart ignored", zap.String("view_id", id), zap.String("item", ctl.Item))
		return false, nil
	}
	tag := reducer.TagAddItem
	if ctl.Kind == view.FavoriteToggle {
		tag = reducer.TagToggleFavorite
	}
	s.count(tag)
	return true, nil
}

// Dispatch sends an action straight to the page reducers.
func (s *Service) Dispatch(id string, action reducer.Action) (ViewDTO, error) {
	p, unlock, err := s.page(id)
	if err != nil {
		return ViewDTO{}, err
	}
	defer unlock()

	p.Dispatch(action)
	s.count(action.Tag())
	return toDTO(id, p), nil
}

func (s *Service) Snapshot(id string) (ViewDTO, error) {
	p, unlock, err := s.page(id)
	if err != nil {
		return ViewDTO{}, err
	}
	defer unlock()
	return toDTO(id, p), nil
}

func (s *Service) SetSoldOut(ctx context.Context, name string, soldOut bool) error {
	if name == "" {
		return errors.New("item name required")
	}
	return s.store.SetSoldOut(ctx, name, soldOut)
}

// Views is the number of mounted views.
func (s *Service) Views() int { return s.views.Len() }

func (s *Service) count(tag string) {
	if s.metrics == nil {
		return
	}
	switch tag {
	case reducer.TagAddItem, reducer.TagRemoveItem, reducer.TagToggleFavorite:
	default:
		tag = "unknown"
	}
	s.metrics.Dispatched.WithLabelValues(tag).Inc()
}

func toDTO(id string, p *view.Page) ViewDTO {
	dto := ViewDTO{
		ID:        id,
		Variant:   string(p.Variant()),
		Cart:      []string(p.Cart()),
		Favorites: []string(p.Favorites()),
	}
	if dto.Cart == nil {
		dto.Cart = []string{}
	}
	if dto.Favorites == nil {
		dto.Favorites = []string{}
	}
	return dto
}

// DTOs
type ViewDTO struct {
	ID        string   `json:"id"`
	Variant   string   `json:"variant"`
	Cart      []string `json:"cart"`
	Favorites []string `json:"favorites"`
}
