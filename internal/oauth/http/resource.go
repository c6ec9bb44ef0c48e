package http

import (
	"net/http"

	"github.com/toydev/grantd/internal/oauth/store"
	"github.com/toydev/grantd/pkg/httpx"
	"github.com/toydev/grantd/pkg/oauthsdk"
	"github.com/toydev/grantd/pkg/slogx"
)

// ResourceHandler serves the protected demo resources. All routes sit behind
// AuthnMiddleware, so by the time a handler runs the subject in the request
// context belongs to a live access token.
type ResourceHandler struct {
	Store store.Store
}

// HandleMe serves GET /v1/api/me with the token subject's basic identity.
func (h *ResourceHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Store.Users().GetUserByUsername(ctx, httpx.SubjectFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load token subject", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, oauthsdk.UserInfoResponse{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
	})
}

// HandleProfile serves GET /v1/api/profile with the full profile.
func (h *ResourceHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Store.Users().GetUserByUsername(ctx, httpx.SubjectFromContext(ctx))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load token subject", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, oauthsdk.ProfileResponse{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Bio:      user.Bio,
		Location: user.Location,
	})
}

// HandlePosts serves GET /v1/api/posts with the subject's posts.
func (h *ResourceHandler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := httpx.SubjectFromContext(ctx)

	posts, err := h.Store.Posts().ListPostsByUsername(ctx, username)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list posts", "error", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]oauthsdk.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, oauthsdk.Post{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, oauthsdk.PostsResponse{
		Username: username,
		Posts:    out,
	})
}
