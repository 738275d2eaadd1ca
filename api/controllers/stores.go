package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/supplynet-dashboard/api/responses"
	"github.com/angelmondragon/supplynet-dashboard/api/validators"
	"github.com/angelmondragon/supplynet-dashboard/internal/directory"
	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

// Directory is the read/write surface of the store directory.
type Directory interface {
	List() []stores.StoreRecord
	Get(id string) (stores.StoreRecord, error)
	UpdateField(id, field string, value any) (stores.StoreRecord, error)
	Status() directory.Status
}

// Refresher triggers an immediate directory poll.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type storeListResponse struct {
	Stores []stores.StoreRecord `json:"stores"`
	Status directory.Status     `json:"status"`
}

type storeFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// StoresList returns the directory listing with its freshness status.
func StoresList(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, storeListResponse{Stores: dir.List(), Status: dir.Status()})
	}
}

// StoresRefresh polls upstream now. A failed poll still answers 200 with the
// fallback listing and the raised error flag.
func StoresRefresh(dir Directory, refresher Refresher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if refresher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory poller unavailable"))
			return
		}
		_ = refresher.Refresh(r.Context())
		responses.WriteSuccess(w, storeListResponse{Stores: dir.List(), Status: dir.Status()})
	}
}

// StoreGet returns one directory record.
func StoreGet(dir Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rec, err := dir.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

// StoreUpdate edits one field locally.
func StoreUpdate(dir Directory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathParam(r, "storeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req storeFieldRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rec, err := dir.UpdateField(id, req.Field, req.Value)
		if err != nil {
			responses.WriteError(logg.WithStoreID(r.Context(), id), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}
