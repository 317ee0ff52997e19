package controllers

import (
	"net/http"

	"postboard/app/models"
	"postboard/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Index lists a post's comment threads. Query: page, size.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgPostNotFound)
		return
	}

	threads, err := cc.commentService.List(r.Context(), postID, services.CommentQuery{
		Page: queryInt(r, "page"),
		Size: queryInt(r, "size"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, threads)
}

// Create handles creating a comment or reply
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgPostNotFound)
		return
	}

	var in models.CommentInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	comment, err := cc.commentService.Create(r.Context(), postID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, comment)
}

// Update handles editing a comment
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "commentId")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgCommentNotFound)
		return
	}

	var in models.CommentUpdateInput
	if !decodeOrReject(w, r, &in) {
		return
	}

	comment, err := cc.commentService.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, comment)
}

// Delete handles deleting a comment and its replies
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		sendMessage(w, http.StatusNotFound, services.MsgCommentNotFound)
		return
	}

	var in models.DeleteInput
	if !decodeOptional(w, r, &in) {
		return
	}

	if err := cc.commentService.Delete(r.Context(), id, in.Password); err != nil {
		respondError(w, r, err)
		return
	}
	sendMessage(w, http.StatusOK, msgDeleted)
}
