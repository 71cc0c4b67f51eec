package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/store"
)

// tagsAPIHandler provides REST handlers for the caller's tag namespace.
type tagsAPIHandler struct {
	tags store.TagStoreIface
}

func registerTagRoutes(r chi.Router, tags store.TagStoreIface) {
	h := &tagsAPIHandler{tags: tags}
	r.Get("/tags", h.List)
	r.Delete("/tags/{id}", h.Delete)
}

// List returns every tag the caller has created, sorted by name.
// GET /api/v1/tags
//
// @Summary      List tags
// @Description  Returns all of the caller's tags, sorted by name.
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Success      200  {object}  TagListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /tags [get]
func (h *tagsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	tags, err := h.tags.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, &TagListResponse{Tags: toTagResponses(tags)})
}

// Delete removes a tag from the caller's namespace. Bookmarks keep their
// other tags; association rows cascade away.
// DELETE /api/v1/tags/{id}
//
// @Summary      Delete a tag
// @Description  Deletes one of the caller's tags. Associations are removed; bookmarks are untouched.
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Tag ID"
// @Success      204  "No Content"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /tags/{id} [delete]
func (h *tagsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	err := h.tags.DeleteOwned(r.Context(), chi.URLParam(r, "id"), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
