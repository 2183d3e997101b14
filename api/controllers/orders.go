package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Avannubo/subirananadons-backend/api/middleware"
	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/orders"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

func viewerFromContext(r *http.Request) (orders.Viewer, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return orders.Viewer{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	role, _ := middleware.RoleFromContext(r.Context())
	return orders.Viewer{UserID: userID, Role: role}, nil
}

// ListOrders pages through the caller's orders (all orders for admins).
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var filter orders.ListFilter
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			filter.Status = &status
		}

		page, err := svc.List(r.Context(), viewer, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetOrder serves one order.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		orderID, err := validators.UUIDParam(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		order, err := svc.Get(r.Context(), viewer, orderID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GetOrderByNumber serves one order by the human-readable number printed
// on receipts.
func GetOrderByNumber(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		order, err := svc.GetByNumber(r.Context(), viewer, chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderInvoice streams the order's invoice PDF.
func OrderInvoice(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		orderID, err := validators.UUIDParam(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		pdf, filename, err := svc.Invoice(r.Context(), viewer, orderID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

// OrderReceipt re-sends the order confirmation.
func OrderReceipt(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, err := viewerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		orderID, err := validators.UUIDParam(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := svc.SendReceipt(r.Context(), viewer, orderID); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "receipt queued"})
	}
}

// UpdateOrderStatus moves an order along its lifecycle. Admin only.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.UUIDParam(chi.URLParam(r, "orderId"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input orders.StatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
