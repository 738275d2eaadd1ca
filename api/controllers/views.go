package controllers

import (
	"net/http"

	"github.com/angelmondragon/supplynet-dashboard/api/responses"
	"github.com/angelmondragon/supplynet-dashboard/api/validators"
	"github.com/angelmondragon/supplynet-dashboard/internal/detail"
	"github.com/angelmondragon/supplynet-dashboard/internal/views"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

type viewCreateRequest struct {
	StoreID string `json:"store_id" validate:"required"`
}

type conditionFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type draftQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type viewResponse struct {
	ViewID string          `json:"view_id"`
	Detail detail.Snapshot `json:"detail"`
}

type orderResponse struct {
	OrderID string          `json:"order_id"`
	Detail  detail.Snapshot `json:"detail"`
}

func writeView(w http.ResponseWriter, status int, view *views.View) {
	responses.WriteSuccessStatus(w, status, viewResponse{ViewID: view.ID, Detail: view.Detail.Snapshot()})
}

// withView resolves {viewID} and tags the request context before calling fn.
func withView(reg *views.Registry, logg *logger.Logger, fn func(http.ResponseWriter, *http.Request, *views.View)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathParam(r, "viewID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := reg.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithStoreID(logg.WithViewID(r.Context(), view.ID), view.Detail.StoreID())
		fn(w, r.WithContext(ctx), view)
	}
}

// ViewCreate mounts a detail view and loads its store. A failed load still
// returns the view so the client can retry with reload.
func ViewCreate(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req viewCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := reg.Create(r.Context(), req.StoreID)
		if view == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err != nil {
			logg.Warn(logg.WithViewID(r.Context(), view.ID), "detail view mounted without store data")
		}
		writeView(w, http.StatusCreated, view)
	}
}

func ViewGet(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		writeView(w, http.StatusOK, view)
	})
}

func ViewDelete(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		if err := reg.Close(view.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "detail view unmounted")
		w.WriteHeader(http.StatusNoContent)
	})
}

func ViewReload(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		if err := view.Detail.Load(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, http.StatusOK, view)
	})
}

func ViewConditionsEdit(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		var req conditionFieldRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := view.Detail.SetConditionField(req.Field, req.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, http.StatusOK, view)
	})
}

func ViewConditionsSubmit(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		if err := view.Detail.SubmitConditions(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, http.StatusOK, view)
	})
}

func ViewItemDraft(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		item, err := validators.PathParam(r, "itemName")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req draftQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := view.Detail.SetItemDraftQuantity(item, req.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, http.StatusOK, view)
	})
}

func ViewNotes(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		var req notesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := view.Detail.SetNotes(req.Notes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeView(w, http.StatusOK, view)
	})
}

func ViewOrderSubmit(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		result, err := view.Detail.SubmitManualOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderResponse{OrderID: result.OrderID, Detail: view.Detail.Snapshot()})
	})
}
