package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dineview/backoffice/internal/backoffice/app"
	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// Handler exposes the admin console operations over HTTP.
type Handler struct {
	controller *app.Controller
}

// NewHandler constructs a Handler.
func NewHandler(controller *app.Controller) *Handler {
	return &Handler{controller: controller}
}

// Register binds the console handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/session", h.handleSession)
	mux.HandleFunc("/v1/dashboard", h.handleDashboard)
	mux.HandleFunc("/v1/orders", h.handleOrders)
	mux.HandleFunc("/v1/orders/", h.handleOrderByID)
	mux.HandleFunc("/v1/products", h.handleProducts)
	mux.HandleFunc("/v1/products/", h.handleProductByID)
	mux.HandleFunc("/v1/categories", h.handleCategories)
	mux.HandleFunc("/v1/categories/", h.handleCategoryByKey)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.login(w, r)
	case http.MethodGet:
		h.sessionState(w, r)
	case http.MethodDelete:
		h.logout(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.controller.Login(r.Context(), payload.Email, payload.Password); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"view": h.controller.Snapshot()})
}

func (h *Handler) sessionState(w http.ResponseWriter, _ *http.Request) {
	authenticated := h.controller.State() == app.StateAuthenticated
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": authenticated})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.controller.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": h.controller.Snapshot()})
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := app.FilterAll
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		filter = app.StatusFilter(statusParam)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":         h.controller.Orders(filter),
		"pending_orders": h.controller.PendingOrders(),
	})
}

func (h *Handler) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.TrimPrefix(r.URL.Path, "/v1/orders/")

	if trimmed == "filter" {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.setFilter(w, r)
		return
	}

	if !strings.HasSuffix(trimmed, "/status") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idParam := strings.TrimSuffix(trimmed, "/status")
	idParam = strings.TrimSuffix(idParam, "/")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.controller.SelectOrder(id); err != nil {
		writeFailure(w, err)
		return
	}
	// On failure the selection stays put so a retry does not have to
	// reselect.
	if err := h.controller.SetStatus(r.Context(), id, domain.OrderStatus(payload.Status)); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"view": h.controller.Snapshot()})
}

// setFilter stores the session's sticky order filter. Listing with a status
// query parameter is a pure projection; this endpoint is what changes the
// dashboard's default subset.
func (h *Handler) setFilter(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	filter := app.FilterAll
	if payload.Status != "" {
		filter = app.StatusFilter(payload.Status)
	}
	h.controller.SetFilter(r.Context(), filter)

	writeJSON(w, http.StatusOK, map[string]any{"view": h.controller.Snapshot()})
}

// productRequest carries product fields plus an optional inline image upload.
type productRequest struct {
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Category         string  `json:"category"`
	Priority         string  `json:"priority"`
	ImageURL         string  `json:"image_url"`
	ImageData        string  `json:"image_data"`
	ImageName        string  `json:"image_name"`
	ImageContentType string  `json:"image_content_type"`
}

func (p productRequest) form() (app.ProductForm, error) {
	form := app.ProductForm{
		Name:             p.Name,
		Price:            p.Price,
		Category:         p.Category,
		Priority:         domain.Priority(p.Priority),
		ImageURL:         p.ImageURL,
		ImageName:        p.ImageName,
		ImageContentType: p.ImageContentType,
	}
	if p.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(p.ImageData)
		if err != nil {
			return app.ProductForm{}, err
		}
		form.ImageData = data
	}
	return form, nil
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"products": h.controller.Snapshot().Products})
	case http.MethodPost:
		h.createProduct(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	form, err := payload.form()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image data")
		return
	}

	if err := h.controller.CreateProduct(r.Context(), form); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"products": h.controller.Snapshot().Products})
}

func (h *Handler) handleProductByID(w http.ResponseWriter, r *http.Request) {
	idParam := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/products/"), "/")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateProduct(w, r, id)
	case http.MethodDelete:
		h.deleteProduct(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request, id int64) {
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	form, err := payload.form()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image data")
		return
	}

	if err := h.controller.UpdateProduct(r.Context(), id, form); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": h.controller.Snapshot().Products})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.controller.DeleteProduct(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"categories": h.controller.Snapshot().Categories})
	case http.MethodPost:
		h.createCategory(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload ports.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.controller.CreateCategory(r.Context(), payload); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"categories": h.controller.Snapshot().Categories})
}

func (h *Handler) handleCategoryByKey(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.TrimPrefix(r.URL.Path, "/v1/categories/")

	if strings.HasSuffix(trimmed, "/position") {
		key := strings.TrimSuffix(strings.TrimSuffix(trimmed, "/position"), "/")
		if key == "" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.reorderCategory(w, r, key)
		return
	}

	key := strings.TrimSuffix(trimmed, "/")
	if key == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateCategory(w, r, key)
	case http.MethodDelete:
		h.deleteCategory(w, r, key)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request, key string) {
	var payload ports.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.controller.UpdateCategory(r.Context(), key, payload); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": h.controller.Snapshot().Categories})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.controller.DeleteCategory(r.Context(), key); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderCategory(w http.ResponseWriter, r *http.Request, key string) {
	var payload struct {
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.controller.Reorder(r.Context(), key, payload.Position); err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": h.controller.Snapshot().Categories})
}

// writeFailure maps an operation error to a status code and the operator
// facing message.
func writeFailure(w http.ResponseWriter, err error) {
	writeError(w, statusFromError(err), app.UserMessage(err))
}

func statusFromError(err error) int {
	var authErr *ports.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}

	switch {
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrDuplicateCategoryKey),
		errors.Is(err, ports.ErrCategoryInUse),
		errors.Is(err, ports.ErrNoOrderSelected),
		errors.Is(err, ports.ErrOrderMissingID),
		errors.Is(err, app.ErrLoginInProgress):
		return http.StatusConflict
	}

	var gwErr *ports.GatewayError
	if errors.As(err, &gwErr) {
		return http.StatusBadGateway
	}

	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
