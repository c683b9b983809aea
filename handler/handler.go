package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"item-listing/reducer"
	"item-listing/service"
	"item-listing/store"
	"item-listing/view"
)

const maxBodyBytes = 1 << 16

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc      service.ServiceInterface
	log      *zap.Logger
	gatherer prometheus.Gatherer
}

// NewHandler returns a Handler instance. A nil gatherer disables /metrics.
func NewHandler(s service.ServiceInterface, log *zap.Logger, g prometheus.Gatherer) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: s, log: log, gatherer: g}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.logRequests)

	r.HandleFunc("/healthz", h.Health).Methods("GET")
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// JSON view API
	r.HandleFunc("/views/{id}", h.Snapshot).Methods("GET")
	r.HandleFunc("/views/{id}", h.Unmount).Methods("DELETE")
	r.HandleFunc("/views/{id}/actions", h.Dispatch).Methods("POST")

	// Catalog admin
	r.HandleFunc("/admin/items/{name}/sold-out", h.SetSoldOut).Methods("POST")

	// HTML pages
	r.HandleFunc("/{variant:good|bad}", h.Mount).Methods("GET")
	r.HandleFunc("/{variant:good|bad}/{id}", h.Page).Methods("GET")
	r.HandleFunc("/{variant:good|bad}/{id}/click", h.Click).Methods("POST")
}

// --- request / response shapes ---
type soldOutReq struct {
	SoldOut *bool `json:"sold_out"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// statusFor maps service and store errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrViewNotFound), errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, view.ErrUnknownControl), errors.Is(err, view.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrReadOnly):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeErr(w, code, err.Error())
}

func pagePath(variant view.Variant, id string) string {
	return fmt.Sprintf("/%s/%s", variant, id)
}

// --- Handler ---

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// Mount handles GET /{variant}: mounts a fresh view and redirects to it.
func (h *Handler) Mount(w http.ResponseWriter, r *http.Request) {
	variant := view.Variant(mux.Vars(r)["variant"])
	v, err := h.svc.Mount(r.Context(), variant)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, pagePath(variant, v.ID), http.StatusSeeOther)
}

// Page handles GET /{variant}/{id}
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var buf bytes.Buffer
	variant, err := h.svc.Render(id, &buf, view.Links{Click: r.URL.Path + "/click"})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if string(variant) != vars["variant"] {
		http.Redirect(w, r, pagePath(variant, id), http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Click handles POST /{variant}/{id}/click
// form: collection=0&item=Potion&control=add-to-cart
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid form")
		return
	}
	collection, err := strconv.Atoi(r.PostForm.Get("collection"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "collection must be an integer")
		return
	}
	item := r.PostForm.Get("item")
	if item == "" {
		writeErr(w, http.StatusBadRequest, "item is required")
		return
	}
	ctl := view.Control{
		Collection: collection,
		Item:       item,
		Kind:       view.ControlKind(r.PostForm.Get("control")),
	}
	if _, err := h.svc.Click(vars["id"], ctl); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, pagePath(view.Variant(vars["variant"]), vars["id"]), http.StatusSeeOther)
}

// Snapshot handles GET /views/{id}
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Snapshot(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Unmount handles DELETE /views/{id}
func (h *Handler) Unmount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unmount(mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch handles POST /views/{id}/actions
// body: { "type": "ADD_ITEM", "payload": { "item": "Potion" } }
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	action, err := reducer.DecodeAction(body)
	if errors.Is(err, reducer.ErrMissingItem) {
		writeErr(w, http.StatusBadRequest, "payload.item is required")
		return
	}
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.svc.Dispatch(mux.Vars(r)["id"], action)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// SetSoldOut handles POST /admin/items/{name}/sold-out
// body: { "sold_out": true }
func (h *Handler) SetSoldOut(w http.ResponseWriter, r *http.Request) {
	var req soldOutReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SoldOut == nil {
		writeErr(w, http.StatusBadRequest, "sold_out is required")
		return
	}
	name := mux.Vars(r)["name"]
	if err := h.svc.SetSoldOut(r.Context(), name, *req.SoldOut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErr(w, http.StatusNotFound, "item not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": name, "sold_out": *req.SoldOut})
}
