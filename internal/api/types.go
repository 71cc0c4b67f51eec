package api

import (
	"time"

	"github.com/shelfd/shelfd/internal/store"
)

// --- Bookmark types ---

// CreateBookmarkRequest is the request body for POST /api/v1/bookmarks.
type CreateBookmarkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// UpdateBookmarkRequest is the request body for PATCH /api/v1/bookmarks/{id}.
// Nil fields are left unchanged.
type UpdateBookmarkRequest struct {
	URL           *string `json:"url,omitempty"`
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	OGImage       *string `json:"og_image,omitempty"`
	OGDescription *string `json:"og_description,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Content       *string   `json:"content"`
	Summary       *string   `json:"summary"`
	OGImage       *string   `json:"og_image"`
	OGDescription *string   `json:"og_description"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookmarkListResponse is the paginated response for GET /api/v1/bookmarks.
type BookmarkListResponse struct {
	Bookmarks []*BookmarkResponse `json:"bookmarks"`
	Total     int                 `json:"total"`
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
}

// toBookmarkResponse converts a store.Bookmark to its API representation.
func toBookmarkResponse(b *store.Bookmark) *BookmarkResponse {
	resp := &BookmarkResponse{
		ID:        b.ID,
		URL:       b.URL,
		Title:     b.Title,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Content.Valid {
		v := b.Content.String
		resp.Content = &v
	}
	if b.Summary.Valid {
		v := b.Summary.String
		resp.Summary = &v
	}
	if b.OGImage.Valid {
		v := b.OGImage.String
		resp.OGImage = &v
	}
	if b.OGDescription.Valid {
		v := b.OGDescription.String
		resp.OGDescription = &v
	}
	return resp
}

// --- Tag types ---

// SetTagsRequest is the request body for PUT /api/v1/bookmarks/{id}/tags.
type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TagListResponse is the response for tag list endpoints.
type TagListResponse struct {
	Tags []*TagResponse `json:"tags"`
}

func toTagResponses(tags []*store.Tag) []*TagResponse {
	out := make([]*TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, &TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt})
	}
	return out
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenResponse is the JSON representation of an API token.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenCreatedResponse includes the plaintext token. It is returned exactly
// once, at creation time.
type TokenCreatedResponse struct {
	TokenResponse
	Token string `json:"token"`
}

// TokenListResponse is the response for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
