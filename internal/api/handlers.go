package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/core/validate"
	"github.com/vietddude/storecore/internal/core/worker"
	"github.com/vietddude/storecore/internal/settings"
)

func asAppError(err error, target **apperr.Error) bool {
	return errors.As(err, target)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			s.writeError(w, apperr.New(
				apperr.KindValidation, "invalid limit parameter", apperr.SeverityLow,
				apperr.WithUserMessage("limit must be a non-negative integer")))
			return
		}
		products, err := s.catalog.ListN(r.Context(), limit)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, products)
		return
	}

	products, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleGetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.BySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleSimilarProducts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	product, err := s.catalog.ByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	similar, err := s.catalog.Similar(r.Context(), product.Name, product.Category, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, similar)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.settings.Read(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resolved)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		s.writeError(w, apperr.New(
			apperr.KindValidation, "malformed settings body", apperr.SeverityLow,
			apperr.WithCause(err)))
		return
	}

	actor := r.Header.Get("X-Actor")
	if actor == "" {
		actor = "admin"
	}

	resolved, err := s.settings.Update(r.Context(), r.PathValue("name"), partial, actor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resolved)
}

type orderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	Address       string             `json:"address"`
	Items         []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func orderSchema(maxItems int) validate.Schema {
	return validate.Schema{
		"customer_name":  {validate.RequiredRule(), validate.LengthRule(2, 100)},
		"customer_email": {validate.RequiredRule(), validate.EmailRule()},
		"customer_phone": {validate.RequiredRule(), validate.PhoneRule()},
		"address":        {validate.RequiredRule(), validate.LengthRule(5, 300)},
		"items":          {validate.ArrayLengthRule(1, maxItems)},
	}
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperr.New(
			apperr.KindValidation, "malformed order body", apperr.SeverityLow,
			apperr.WithCause(err)))
		return
	}

	cfg, err := s.settings.Read(r.Context(), settings.StoreName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cfg.GlobalLock {
		msg := cfg.LockMessage
		if msg == "" {
			msg = "Ordering is temporarily paused."
		}
		s.writeError(w, apperr.New(
			apperr.KindAuthorization, "ordering is globally locked", apperr.SeverityLow,
			apperr.WithUserMessage(msg)))
		return
	}

	items := make([]any, len(req.Items))
	for i, item := range req.Items {
		items[i] = item
	}
	result := orderSchema(cfg.MaxItemsPerOrder).Validate(map[string]any{
		"customer_name":  req.CustomerName,
		"customer_email": req.CustomerEmail,
		"customer_phone": req.CustomerPhone,
		"address":        req.Address,
		"items":          items,
	})
	if !result.OK {
		s.writeError(w, apperr.New(
			apperr.KindValidation, "order payload failed validation", apperr.SeverityLow,
			apperr.WithMeta(map[string]any{"field_errors": result.FieldErrors})))
		return
	}

	order := &domain.Order{
		CustomerName:  result.Sanitized["customer_name"].(string),
		CustomerEmail: result.Sanitized["customer_email"].(string),
		CustomerPhone: result.Sanitized["customer_phone"].(string),
		Address:       result.Sanitized["address"].(string),
		Status:        domain.OrderStatusPending,
		Origin:        "storefront-api",
	}

	total := cfg.DeliveryFeeCents
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			s.writeError(w, apperr.New(
				apperr.KindValidation, "order item with non-positive quantity", apperr.SeverityLow,
				apperr.WithUserMessage("Item quantities must be positive.")))
			return
		}
		product, lookupErr := s.catalog.ByID(r.Context(), item.ProductID)
		if lookupErr != nil {
			var appErr *apperr.Error
			if asAppError(lookupErr, &appErr) && appErr.Kind == apperr.KindNotFound {
				s.writeError(w, apperr.New(
					apperr.KindValidation, "order references unknown product", apperr.SeverityLow,
					apperr.WithUserMessage("One of the ordered products no longer exists."),
					apperr.WithMeta(map[string]any{"product_id": item.ProductID})))
				return
			}
			s.writeError(w, lookupErr)
			return
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitCents: product.PriceCents,
		})
		total += product.PriceCents * int64(item.Quantity)
	}
	order.TotalCents = total

	if err := s.writer.SafeStoreOrder(r.Context(), order); err != nil {
		s.writeError(w, err)
		return
	}

	s.dispatchConfirmation(order)
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":          order.ID,
		"status":      order.Status,
		"total_cents": order.TotalCents,
	})
}

// dispatchConfirmation queues the confirmation email. Fire-and-forget:
// a failed dispatch never blocks or rolls back the order.
func (s *Server) dispatchConfirmation(order *domain.Order) {
	job := domain.NotificationJob{
		To:         order.CustomerEmail,
		TemplateID: "order_confirmation",
		Params: map[string]string{
			"customer_name": order.CustomerName,
			"order_id":      order.ID,
			"total":         strconv.FormatInt(order.TotalCents, 10),
		},
	}
	submitted := s.queue.Submit(worker.Task{
		Name: "order-confirmation-email",
		Run: func(ctx context.Context) error {
			s.notifier.SendOrderEmail(ctx, job)
			return nil
		},
	})
	if !submitted {
		s.log.Warn("order confirmation dispatch dropped", "order_id", order.ID)
	}
}
