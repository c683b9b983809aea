package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"item-listing/a11y"
	"item-listing/catalog"
	"item-listing/service"
	"item-listing/store"
)

const weapon = "Super Ultra Hyper Amazing Weapon"

type fakeCatalog struct {
	store.StaticStore
	setSoldOut func(name string, soldOut bool) error
}

func (f *fakeCatalog) SetSoldOut(_ context.Context, name string, soldOut bool) error {
	return f.setSoldOut(name, soldOut)
}

func newRouter(t *testing.T, cs store.CatalogStore) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc := service.NewService(cs, service.Options{Metrics: service.NewMetrics(reg)})
	r := mux.NewRouter()
	NewHandler(svc, nil, reg).RegisterRoutes(r)
	return r
}

func renderGood(t *testing.T) *a11y.Screen {
	t.Helper()
	s, err := a11y.Render(newRouter(t, store.NewStaticStore()), "/good")
	require.NoError(t, err)
	require.Regexp(t, `^/good/[0-9a-f-]{36}$`, s.Path())
	return s
}

func cartButton(t *testing.T, s *a11y.Screen) *a11y.Node {
	t.Helper()
	b, err := s.Root().GetByRole("button", a11y.Name("Shopping Cart"))
	require.NoError(t, err)
	return b
}

func item(t *testing.T, s *a11y.Screen, region, name string) *a11y.Node {
	t.Helper()
	r, err := s.Root().GetByRole("region", a11y.Name(region))
	require.NoError(t, err)
	it, err := r.GetByRole("listitem", a11y.Name(name))
	require.NoError(t, err)
	return it
}

func favorite(t *testing.T, s *a11y.Screen, region, name string) *a11y.Node {
	t.Helper()
	b, err := item(t, s, region, name).GetByRole("button", a11y.Name("favorite"))
	require.NoError(t, err)
	return b
}

func headings(t *testing.T, s *a11y.Screen, region string) map[string]bool {
	t.Helper()
	r, err := s.Root().GetByRole("region", a11y.Name(region))
	require.NoError(t, err)
	out := map[string]bool{}
	for _, li := range r.AllByRole("listitem") {
		h, err := li.GetByRole("heading")
		require.NoError(t, err)
		out[h.Text()] = true
	}
	return out
}

func TestShoppingCartButtonIsUniqueAndInBanner(t *testing.T) {
	s := renderGood(t)

	carts := s.Root().AllByRole("button", a11y.Name("Shopping Cart"))
	require.Len(t, carts, 1)
	assert.False(t, carts[0].Hidden())

	banner, err := s.Root().GetByRole("banner")
	require.NoError(t, err)
	assert.True(t, banner.Contains(carts[0]))
	assert.Empty(t, carts[0].Description())
}

func TestCollectionsShareAnItem(t *testing.T) {
	s := renderGood(t)
	top := headings(t, s, catalog.TopSales)
	fresh := headings(t, s, catalog.NewItems)

	var common []string
	for name := range top {
		if fresh[name] {
			common = append(common, name)
		}
	}
	assert.Equal(t, []string{weapon}, common)
}

func TestFavoriteIsReflectedInBothCollections(t *testing.T) {
	s := renderGood(t)

	require.NoError(t, s.Click(favorite(t, s, catalog.TopSales, weapon)))
	for _, region := range []string{catalog.TopSales, catalog.NewItems} {
		pressed, ok := favorite(t, s, region, weapon).Pressed()
		require.True(t, ok)
		assert.True(t, pressed, region)
	}

	pressedInNew, err := item(t, s, catalog.NewItems, weapon).
		GetByRole("button", a11y.Name("favorite"), a11y.Pressed(true))
	require.NoError(t, err)
	require.NoError(t, s.Click(pressedInNew))
	for _, region := range []string{catalog.TopSales, catalog.NewItems} {
		pressed, _ := favorite(t, s, region, weapon).Pressed()
		assert.False(t, pressed, region)
	}
}

func TestSoldOutAddToCartDoesNothing(t *testing.T) {
	s := renderGood(t)
	soldRe := regexp.MustCompile(`SOLD`)

	n := len(s.Root().AllByRole("listitem", a11y.DescriptionMatches(soldRe)))
	require.Greater(t, n, 0)

	for i := range n {
		for range 3 {
			li := s.Root().AllByRole("listitem", a11y.DescriptionMatches(soldRe))[i]
			btn, err := li.GetByRole("button", a11y.Name("Add to Cart"))
			require.NoError(t, err)
			v, _ := btn.Attr("aria-disabled")
			assert.Equal(t, "true", v)
			assert.True(t, btn.Disabled())
			require.NoError(t, s.Click(btn))
		}
	}
	assert.NotRegexp(t, `^\d+ items in the cart$`, cartButton(t, s).Description())
}

func TestAddToCartCountsEveryEnabledButton(t *testing.T) {
	s := renderGood(t)

	enabled := func() []*a11y.Node {
		var out []*a11y.Node
		for _, b := range s.Root().AllByRole("button", a11y.Name("Add to Cart")) {
			if _, ok := b.Attr("aria-disabled"); !ok {
				out = append(out, b)
			}
		}
		return out
	}

	n := len(enabled())
	require.Equal(t, 8, n)
	for i := range n {
		require.NoError(t, s.Click(enabled()[i]))
		if i == 0 {
			assert.Equal(t, "1 items in the cart", cartButton(t, s).Description())
		}
	}
	assert.Equal(t, fmt.Sprintf("%d items in the cart", n), cartButton(t, s).Description())
}

func TestBadVariantClickStillWorks(t *testing.T) {
	h := newRouter(t, store.NewStaticStore())
	s, err := a11y.Render(h, "/bad")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s.Path(), "/bad/"))

	adds := s.Root().AllByText("Add to Cart")
	require.Len(t, adds, 9)
	require.NoError(t, s.Click(adds[0]))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/"+strings.TrimPrefix(s.Path(), "/bad/"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap service.ViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "bad", snap.Variant)
	assert.Equal(t, []string{"Potion"}, snap.Cart)
}

func TestViewAPI(t *testing.T) {
	h := newRouter(t, store.NewStaticStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/good", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/good/")

	dispatch := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/views/"+id+"/actions", strings.NewReader(body)))
		return rec
	}

	rec = dispatch(`{"type":"ADD_ITEM","payload":{"item":"Potion"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = dispatch(`{"type":"TOGGLE_FAVORITE","payload":{"item":"Elixir"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = dispatch(`{"type":"CLEAR_CART"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap service.ViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "good", snap.Variant)
	assert.Equal(t, []string{"Potion"}, snap.Cart)
	assert.Equal(t, []string{"Elixir"}, snap.Favorites)

	assert.Equal(t, http.StatusBadRequest, dispatch(`{nope`).Code)

	rec = dispatch(`{"type":"ADD_ITEM"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "payload.item is required")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	snap = service.ViewDTO{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, []string{"Potion"}, snap.Cart)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad/"+id, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/good/"+id, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/views/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, dispatch(`{"type":"ADD_ITEM","payload":{"item":"Potion"}}`).Code)
}

func TestClickValidation(t *testing.T) {
	h := newRouter(t, store.NewStaticStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/good", nil))
	path := rec.Header().Get("Location")

	cases := []struct {
		form string
		code int
	}{
		{"collection=x&item=Potion&control=add-to-cart", http.StatusBadRequest},
		{"collection=0&control=add-to-cart", http.StatusBadRequest},
		{"collection=0&item=Potion&control=buy-now", http.StatusBadRequest},
		{"collection=7&item=Potion&control=add-to-cart", http.StatusBadRequest},
		{"collection=0&item=Potion&control=add-to-cart", http.StatusSeeOther},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, path+"/click", strings.NewReader(tc.form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.code, rec.Code, tc.form)
	}

	req := httptest.NewRequest(http.MethodPost, "/good/missing/click", strings.NewReader("collection=0&item=Potion&control=add-to-cart"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetSoldOut(t *testing.T) {
	var got []string
	fc := &fakeCatalog{setSoldOut: func(name string, soldOut bool) error {
		if name == "Nothing" {
			return sql.ErrNoRows
		}
		got = append(got, fmt.Sprintf("%s=%v", name, soldOut))
		return nil
	}}
	h := newRouter(t, fc)

	post := func(path, body string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post("/admin/items/Potion/sold-out", `{"sold_out":true}`))
	assert.Equal(t, http.StatusNotFound, post("/admin/items/Nothing/sold-out", `{"sold_out":true}`))
	assert.Equal(t, http.StatusBadRequest, post("/admin/items/Potion/sold-out", `{}`))
	assert.Equal(t, http.StatusBadRequest, post("/admin/items/Potion/sold-out", `nope`))
	assert.Equal(t, []string{"Potion=true"}, got)

	static := newRouter(t, store.NewStaticStore())
	rec := httptest.NewRecorder()
	static.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/items/Potion/sold-out", strings.NewReader(`{"sold_out":true}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newRouter(t, store.NewStaticStore())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	_, err := a11y.Render(h, "/good")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "listing_views_mounted_total 1")
	assert.Contains(t, rec.Body.String(), "listing_views_active 1")
}
