package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/products"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// ListProducts serves the catalog. Public callers only see active rows;
// the admin router mounts the same handler with adminView true.
func ListProducts(svc products.Service, logg *logger.Logger, adminView bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		brandID, err := validators.OptionalUUIDQuery(r, "brand_id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		filter := products.ListFilter{
			BrandID:    brandID,
			Search:     r.URL.Query().Get("q"),
			ActiveOnly: !adminView,
		}

		page, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct serves one catalog row.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct adds a catalog row. Admin only.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update. Admin only.
func UpdateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input products.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// StockInput adjusts a product's stock without touching the rest of the
// row.
type StockInput struct {
	Stock *int `json:"stock" validate:"required,gte=0"`
}

// UpdateProductStock sets the stock level on one product. Admin only.
func UpdateProductStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input StockInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		product, err := svc.Update(r.Context(), productID, products.UpdateInput{Stock: input.Stock})
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a catalog row. Admin only.
func DeleteProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.UUIDParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
