package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"storefront/catalog"
	"storefront/checkout"
	"storefront/service"
)

// Handler is the HTTP layer that talks to service.Service. It is the
// presentation boundary: it renders cart state, dispatches actions and
// triggers checkout, but owns no state of its own.
type Handler struct {
	svc service.ServiceInterface
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{svc: s}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Products
	r.HandleFunc("/products", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/search", h.SearchProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")

	// Cart
	r.HandleFunc("/cart", h.GetCart).Methods("GET")
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")
	r.HandleFunc("/cart/quantity", h.SetQuantity).Methods("POST")
	r.HandleFunc("/cart/clear", h.ClearCart).Methods("POST")
	r.HandleFunc("/cart/toggle", h.ToggleCart).Methods("POST")
	r.HandleFunc("/cart/open", h.OpenCart).Methods("POST")
	r.HandleFunc("/cart/close", h.CloseCart).Methods("POST")

	// Checkout
	r.HandleFunc("/checkout/toggle", h.ToggleCheckout).Methods("POST")
	r.HandleFunc("/checkout/order", h.PlaceOrder).Methods("POST")
}

// --- request / response shapes ---
type cartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"` // only used by /cart/quantity
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

// writeTaxonomyErr maps the storefront error taxonomy onto HTTP codes. Every
// error here is recoverable: catalog reads can be re-issued, validation is
// fixed in the form, and a failed submission leaves the cart intact.
func writeTaxonomyErr(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, catalog.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, catalog.ErrMalformed):
		writeErr(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, checkout.ErrSubmissionFailed):
		writeErr(w, http.StatusBadGateway, err.Error())
	default:
		writeErr(w, http.StatusBadRequest, err.Error())
	}
}

// --- Handler ---

// ListProducts handles GET /products?category=&minPrice=&maxPrice=&sort=&page=&limit=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.svc.ListProducts(r.Context(), f)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SearchProducts handles GET /products/search?q=
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeErr(w, http.StatusBadRequest, "q is required")
		return
	}
	page, err := h.svc.SearchProducts(r.Context(), term)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Cart())
}

// AddToCart handles POST /cart/add
// body: { "product_id": "..." }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id is required")
		return
	}
	view, err := h.svc.AddToCart(r.Context(), req.ProductID)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveFromCart handles POST /cart/remove
// body: { "product_id": "..." }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id is required")
		return
	}
	view, err := h.svc.RemoveFromCart(req.ProductID)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetQuantity handles POST /cart/quantity
// body: { "product_id": "...", "quantity": 3 }
// A quantity <= 0 removes the line, matching the cart's transition table.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product_id is required")
		return
	}
	view, err := h.svc.SetQuantity(req.ProductID, req.Quantity)
	if err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ClearCart())
}

// ToggleCart handles POST /cart/toggle
func (h *Handler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ToggleCart())
}

// OpenCart handles POST /cart/open
func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.OpenCart())
}

// CloseCart handles POST /cart/close
func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.CloseCart())
}

// ToggleCheckout handles POST /checkout/toggle
func (h *Handler) ToggleCheckout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ToggleCheckout())
}

// PlaceOrder handles POST /checkout/order
// body: { "name": "...", "email": "...", "address": "..." }
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.svc.PlaceOrder(r.Context(), form); err != nil {
		writeTaxonomyErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "order placed",
		"cart":   h.svc.Cart(),
	})
}

func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		Category: q.Get("category"),
		Sort:     catalog.Sort(q.Get("sort")),
	}
	var err error
	if f.MinPrice, err = floatParam(q.Get("minPrice"), "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return f, err
	}
	if f.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	return f, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(name + " must be a number")
	}
	return &v, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}
