package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/api/middleware"
	"github.com/Avannubo/subirananadons-backend/api/responses"
	"github.com/Avannubo/subirananadons-backend/api/validators"
	"github.com/Avannubo/subirananadons-backend/internal/registry"
	"github.com/Avannubo/subirananadons-backend/pkg/enums"
	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
)

// CreateListInput is the body of POST /lists.
type CreateListInput struct {
	Title    string  `json:"title" validate:"required,min=2,max=200"`
	BabyName *string `json:"baby_name" validate:"omitempty,max=120"`
}

// ListItemInput is one entry of the bulk items write.
type ListItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
	Reserved  int       `json:"reserved"`
	Priority  int       `json:"priority"`
	State     int       `json:"state"`
}

// SetListItemsInput replaces a list's item collection.
type SetListItemsInput struct {
	Items []ListItemInput `json:"items"`
}

// CreateList opens a birth list for the signed-in user.
func CreateList(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var input CreateListInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		list, err := svc.CreateList(r.Context(), userID, registry.CreateListInput{
			Title:    input.Title,
			BabyName: input.BabyName,
		})
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, list)
	}
}

// GetList serves a list header with its completion percentage. Public:
// gift buyers follow a shared link.
func GetList(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.UUIDParam(chi.URLParam(r, "listId"), "list id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		list, err := svc.GetList(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListLists pages through lists. Admins see all; everyone else sees their
// own.
func ListLists(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		owner := &userID
		if role, _ := middleware.RoleFromContext(r.Context()); role == enums.UserRoleAdmin {
			owner = nil
		}

		page, err := svc.ListLists(r.Context(), owner, params)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetListItems serves a list's items and progress. With pending=true only
// still-wanted items come back, which is the view gift buyers get.
func GetListItems(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := validators.UUIDParam(chi.URLParam(r, "listId"), "list id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		pendingOnly, err := validators.BoolQuery(r, "pending")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		items, err := svc.GetItems(r.Context(), listID, pendingOnly)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// SetListItems replaces the whole item collection. Owner only.
func SetListItems(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		listID, err := validators.UUIDParam(chi.URLParam(r, "listId"), "list id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input SetListItemsInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		inputs := make([]registry.ItemInput, 0, len(input.Items))
		for _, item := range input.Items {
			inputs = append(inputs, registry.ItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Reserved:  item.Reserved,
				Priority:  item.Priority,
				State:     enums.ListItemState(item.State),
			})
		}

		items, err := svc.SetItems(r.Context(), listID, userID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// DeleteListItem removes one row from a list. Owner only.
func DeleteListItem(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), w, logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		listID, err := validators.UUIDParam(chi.URLParam(r, "listId"), "list id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		itemID, err := validators.UUIDParam(chi.URLParam(r, "itemId"), "item id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), listID, itemID, userID); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
