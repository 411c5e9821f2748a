package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CoverKey string `json:"coverKey"`
}

type updatePostRequest struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	CoverKey string `json:"coverKey"`
}

type postAuthor struct {
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type postResponse struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	CoverKey  string      `json:"coverKey,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    *postAuthor `json:"author,omitempty"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func toPostResponse(p *posts.Post, withAuthor bool) postResponse {
	resp := postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CoverKey:  p.CoverKey,
		CreatedAt: p.CreatedAt,
	}
	if withAuthor {
		resp.Author = &postAuthor{Name: p.AuthorName, Bio: p.AuthorBio}
	}
	return resp
}

func validPostInput(title, content string) bool {
	return strings.TrimSpace(title) != "" && strings.TrimSpace(content) != ""
}

// respondPostError maps ownership guard outcomes to the API contract:
// a missing post is 404 and is never disclosed as 403.
func (s *RESTServer) respondPostError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "Forbidden: You do not own this post")
	default:
		s.internalError(w, r, msg, err)
	}
}

func (s *RESTServer) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	var req createPostRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if !validPostInput(req.Title, req.Content) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	post, err := s.posts.Create(r.Context(), subject, req.Title, req.Content, req.CoverKey)
	if err != nil {
		s.internalError(w, r, "Failed to create post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post created successfully",
		"id":      post.ID,
	})
}

func (s *RESTServer) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	var req updatePostRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	if req.ID == "" || !validPostInput(req.Title, req.Content) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid input data")
		return
	}

	post := &posts.Post{ID: req.ID, Title: req.Title, Content: req.Content, CoverKey: req.CoverKey}
	if err := s.posts.Update(r.Context(), subject, post); err != nil {
		s.respondPostError(w, r, "Failed to update post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post updated successfully",
		"id":      req.ID,
	})
}

func (s *RESTServer) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "Invalid post ID")
		return
	}

	if err := s.posts.Delete(r.Context(), subject, id); err != nil {
		s.respondPostError(w, r, "Failed to delete post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (s *RESTServer) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := s.posts.List(r.Context(), page, limit)
	if err != nil {
		s.internalError(w, r, "Failed to fetch posts", err)
		return
	}

	items := make([]postResponse, 0, len(result.Posts))
	for _, p := range result.Posts {
		items = append(items, toPostResponse(p, true))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": items,
		"pagination": paginationResponse{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

func (s *RESTServer) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusUnprocessableEntity, "Invalid post ID")
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		s.internalError(w, r, "Failed to fetch post", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"post": toPostResponse(post, true)})
}

func (s *RESTServer) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectID(r.Context())

	result, err := s.posts.ListByAuthor(r.Context(), subject)
	if err != nil {
		s.internalError(w, r, "Failed to fetch your posts", err)
		return
	}

	items := make([]postResponse, 0, len(result))
	for _, p := range result {
		items = append(items, toPostResponse(p, false))
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": items})
}
