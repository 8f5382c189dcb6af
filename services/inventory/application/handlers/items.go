package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/inventory/pkg/errhttp"
	"github.com/ghuser/inventory/pkg/httpx"
	pkgvalidator "github.com/ghuser/inventory/pkg/validator"
	appsvcs "github.com/ghuser/inventory/services/inventory/application/services"
	"github.com/ghuser/inventory/services/inventory/domain/models"
)

// ItemHandler serves the /items endpoints.
type ItemHandler struct {
	svc *appsvcs.Services
}

// NewItemHandler returns an ItemHandler backed by the given services.
func NewItemHandler(svc *appsvcs.Services) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// Create adds one item or a batch of items.
//
//	@Summary		Create items
//	@Description	Accepts a single item or an array of items. Each candidate is accepted or rejected on its own; the response always has status 200 and one result per candidate, in request order.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.Item	true	"Item or array of items"
//	@Success		200		{array}		models.Result
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		413		{object}	httpx.MessageResponse	"Request body too large"
//	@Router			/items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	batch, ok := pkgvalidator.DecodeRequest[models.Batch](w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.svc.Item.Create(r.Context(), batch))
}

// List returns every item in insertion order.
//
//	@Summary	List items
//	@Tags		items
//	@Produce	json
//	@Success	200	{array}		models.Item
//	@Failure	404	{object}	httpx.MessageResponse	"No items found"
//	@Router		/items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Get returns one item.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	models.Item
//	@Failure	404	{object}	httpx.MessageResponse	"Item not found"
//	@Router		/items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Item.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Update shallow-merges the body into the item.
//
//	@Summary		Update item
//	@Description	Fields present in the body overwrite the stored values; absent fields are kept. The id cannot be changed.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Item ID"
//	@Param			request	body		models.Item	true	"Partial item"
//	@Success		200		{object}	models.Item
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		404		{object}	httpx.MessageResponse	"Item not found"
//	@Failure		413		{object}	httpx.MessageResponse	"Request body too large"
//	@Router			/items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, ok := pkgvalidator.DecodeRequest[models.Patch](w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Delete removes an item. Users that reference it keep the id.
//
//	@Summary	Delete item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		string	true	"Item ID"
//	@Success	200	{object}	httpx.MessageResponse	"Item deleted successfully"
//	@Failure	404	{object}	httpx.MessageResponse	"Item not found"
//	@Router		/items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Item.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "Item deleted successfully"})
}
