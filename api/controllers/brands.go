package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/brands"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// ListBrands serves the brand catalog.
func ListBrands(svc brands.Service, logg *logger.Logger, adminView bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), !adminView)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetBrand serves one brand.
func GetBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, err := validators.UUIDParam(chi.URLParam(r, "brandId"), "brand id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		brand, err := svc.Get(r.Context(), brandID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

// CreateBrand adds a brand. Admin only.
func CreateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input brands.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		brand, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	}
}

// UpdateBrand applies a partial update. Admin only.
func UpdateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, err := validators.UUIDParam(chi.URLParam(r, "brandId"), "brand id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input brands.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		brand, err := svc.Update(r.Context(), brandID, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

// DeleteBrand removes a brand. Admin only.
func DeleteBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandID, err := validators.UUIDParam(chi.URLParam(r, "brandId"), "brand id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := svc.Delete(r.Context(), brandID); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
