package controllers

import (
	"net/http"

	"postboard/app/models"
	"postboard/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index lists posts. Query: page, size, search, author.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := pc.postService.List(r.Context(), services.PostQuery{
		Page:   queryInt(r, "page"),
		Size:   queryInt(r, "size"),
		Search: query.Get("search"),
		Author: query.Get("author"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	post, err := pc.postService.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgPostNotFound)
		return
	}

	var in models.PostUpdateInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	post, err := pc.postService.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgPostNotFound)
		return
	}

	var in models.DeleteInput
	if !decodeOptional(w, r, &in) {
		return
	}

	if err := pc.postService.Delete(r.Context(), id, in.PasswordValue()); err != nil {
		respondError(w, r, err)
		return
	}
	sendMessage(w, http.StatusOK, msgDeleted)
}
