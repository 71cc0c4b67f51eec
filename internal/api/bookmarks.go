package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/bookmarks"
	"github.com/shelfd/shelfd/internal/metrics"
	"github.com/shelfd/shelfd/internal/store"
)

// bookmarksAPIHandler provides REST handlers for bookmark management.
type bookmarksAPIHandler struct {
	svc *bookmarks.Service
}

// registerBookmarkRoutes registers bookmark and tag-association routes on r.
func registerBookmarkRoutes(r chi.Router, svc *bookmarks.Service) {
	h := &bookmarksAPIHandler{svc: svc}
	r.Get("/bookmarks", h.List)
	r.Post("/bookmarks", h.Create)
	r.Get("/bookmarks/{id}", h.Get)
	r.Patch("/bookmarks/{id}", h.Update)
	r.Delete("/bookmarks/{id}", h.Delete)
	r.Get("/bookmarks/{id}/tags", h.ListTags)
	r.Put("/bookmarks/{id}/tags", h.SetTags)
}

// List returns one page of the caller's bookmarks with the total count.
// GET /api/v1/bookmarks
//
// @Summary      List bookmarks
// @Description  Returns a page of the caller's bookmarks, newest first, with the total count.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        page   query     int  false  "Page number (1-indexed, default 1)"
// @Param        limit  query     int  false  "Page size (1-100, default 20)"
// @Success      200  {object}  BookmarkListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	result, err := h.svc.List(r.Context(), user.ID, page, limit)
	if err != nil {
		log.Printf("api: list bookmarks for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &BookmarkListResponse{
		Bookmarks: make([]*BookmarkResponse, 0, len(result.Bookmarks)),
		Total:     result.Total,
		Page:      result.Page,
		Limit:     result.Limit,
	}
	for _, b := range result.Bookmarks {
		resp.Bookmarks = append(resp.Bookmarks, toBookmarkResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create saves a new bookmark owned by the caller.
// POST /api/v1/bookmarks
//
// @Summary      Create a bookmark
// @Description  Creates a new bookmark. The title defaults to the URL when omitted.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBookmarkRequest  true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := store.ValidateBookmarkURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_URL")
		return
	}
	if err := store.ValidateTitle(req.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_TITLE")
		return
	}

	b, err := h.svc.Create(r.Context(), user.ID, bookmarks.CreateInput{URL: req.URL, Title: req.Title})
	if err != nil {
		log.Printf("api: create bookmark for %s: %v", user.ID, err)
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BookmarksCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

// Get returns a single bookmark owned by the caller.
// GET /api/v1/bookmarks/{id}
//
// @Summary      Get a bookmark
// @Description  Returns a bookmark by ID. Other users' bookmarks are indistinguishable from missing ones.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	b, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// Update applies a partial update to a bookmark owned by the caller.
// PATCH /api/v1/bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Applies a partial update. Omitted fields are left unchanged.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Bookmark ID"
// @Param        body  body      UpdateBookmarkRequest  true  "Fields to update"
// @Success      200   {object}  BookmarkResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [patch]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	patch, code, err := buildPatch(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), code)
		return
	}

	b, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), user.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		log.Printf("api: update bookmark %s: %v", chi.URLParam(r, "id"), err)
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// buildPatch validates the present fields of an update request and converts
// them to a store patch.
func buildPatch(req *UpdateBookmarkRequest) (store.BookmarkPatch, string, error) {
	var patch store.BookmarkPatch

	if req.URL != nil {
		if err := store.ValidateBookmarkURL(*req.URL); err != nil {
			return patch, "INVALID_URL", err
		}
		patch.URL = req.URL
	}
	if req.Title != nil {
		if err := store.ValidateTitle(*req.Title); err != nil {
			return patch, "INVALID_TITLE", err
		}
		patch.Title = req.Title
	}
	if req.Content != nil {
		if err := store.ValidateContent(*req.Content); err != nil {
			return patch, "INVALID_CONTENT", err
		}
		patch.Content = req.Content
	}
	if req.Summary != nil {
		if err := store.ValidateSummary(*req.Summary); err != nil {
			return patch, "INVALID_SUMMARY", err
		}
		patch.Summary = req.Summary
	}
	if req.OGImage != nil {
		if err := store.ValidateOGImage(*req.OGImage); err != nil {
			return patch, "INVALID_OG_IMAGE", err
		}
		patch.OGImage = req.OGImage
	}
	if req.OGDescription != nil {
		patch.OGDescription = req.OGDescription
	}
	if req.Status != nil {
		if err := store.ValidateStatus(*req.Status); err != nil {
			return patch, "INVALID_STATUS", err
		}
		patch.Status = req.Status
	}

	return patch, "", nil
}

// Delete removes a bookmark owned by the caller and returns the removed record.
// DELETE /api/v1/bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Description  Deletes a bookmark by ID and returns the deleted record. Tag associations cascade.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	b, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		log.Printf("api: delete bookmark %s: %v", chi.URLParam(r, "id"), err)
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BookmarksDeletedTotal.Inc()
	writeJSON(w, http.StatusOK, toBookmarkResponse(b))
}

// ListTags returns the tags attached to a bookmark owned by the caller.
// GET /api/v1/bookmarks/{id}/tags
//
// @Summary      List bookmark tags
// @Description  Returns the tags attached to a bookmark, sorted by name.
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bookmark ID"
// @Success      200  {object}  TagListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id}/tags [get]
func (h *bookmarksAPIHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	tags, err := h.svc.ListTags(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, &TagListResponse{Tags: toTagResponses(tags)})
}

// SetTags replaces the tag set on a bookmark owned by the caller.
// PUT /api/v1/bookmarks/{id}/tags
//
// @Summary      Set bookmark tags
// @Description  Replaces the full tag set on a bookmark. Unknown tag names are created for the caller.
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Bookmark ID"
// @Param        body  body      SetTagsRequest  true  "Tag names"
// @Success      200   {object}  TagListResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id}/tags [put]
func (h *bookmarksAPIHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req SetTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	tags, err := h.svc.SetTags(r.Context(), chi.URLParam(r, "id"), user.ID, req.Tags)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
			return
		}
		log.Printf("api: set tags on bookmark %s: %v", chi.URLParam(r, "id"), err)
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, &TagListResponse{Tags: toTagResponses(tags)})
}
