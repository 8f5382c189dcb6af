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

// EnrichedUserResponse documents a user whose item ids are replaced by the
// current item objects. A slot is null when the item no longer exists.
type EnrichedUserResponse struct {
	ID    string         `json:"id"    example:"user1"`
	Name  string         `json:"name"  example:"John"`
	Email string         `json:"email" example:"john@x.com"`
	Items []*models.Item `json:"items"`
} // @name EnrichedUser

// UserHandler serves the /users endpoints.
type UserHandler struct {
	svc *appsvcs.Services
}

// NewUserHandler returns a UserHandler backed by the given services.
func NewUserHandler(svc *appsvcs.Services) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create adds one user or a batch of users.
//
//	@Summary		Create users
//	@Description	Accepts a single user or an array of users. Every listed item id must exist. The response always has status 200 and one result per candidate, in request order.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.User	true	"User or array of users"
//	@Success		200		{array}		models.Result
//	@Failure		400		{object}	httpx.MessageResponse
//	@Failure		413		{object}	httpx.MessageResponse	"Request body too large"
//	@Router			/users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	batch, ok := pkgvalidator.DecodeRequest[models.Batch](w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, h.svc.User.Create(r.Context(), batch))
}

// List returns every user with item references resolved.
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Success	200	{array}		EnrichedUserResponse
//	@Failure	404	{object}	httpx.MessageResponse	"No users found"
//	@Router		/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.User.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

// Get returns one user with item references resolved.
//
//	@Summary	Get user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	EnrichedUserResponse
//	@Failure	404	{object}	httpx.MessageResponse	"User not found"
//	@Router		/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.User.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Update shallow-merges the body into the user.
//
//	@Summary		Update user
//	@Description	Fields present in the body overwrite the stored values. When "items" is present every id must exist, otherwise nothing changes. Returns the merged user with plain item ids.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"User ID"
//	@Param			request	body		models.User	true	"Partial user"
//	@Success		200		{object}	models.User
//	@Failure		400		{object}	httpx.MessageResponse	"Invalid items: item9, item10"
//	@Failure		404		{object}	httpx.MessageResponse	"User not found"
//	@Failure		413		{object}	httpx.MessageResponse	"Request body too large"
//	@Router			/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, ok := pkgvalidator.DecodeRequest[models.Patch](w, r)
	if !ok {
		return
	}
	user, err := h.svc.User.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Delete removes a user. Referenced items are not affected.
//
//	@Summary	Delete user
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	httpx.MessageResponse	"User deleted successfully"
//	@Failure	404	{object}	httpx.MessageResponse	"User not found"
//	@Router		/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.User.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "User deleted successfully"})
}
