package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"postboard/app/services"

	"github.com/gorilla/mux"
)

const (
	msgBadRequest = "잘못된 요청 형식입니다."
	msgServer     = "서버 오류가 발생했습니다."
	msgDeleted    = "삭제되었습니다."
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func sendMessage(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, messageResponse{Message: message})
}

// respondError writes err as a JSON message. Service errors carry their own
// status and message; anything else is a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("%s %s: unexpected error: %v", r.Method, r.URL.Path, err)
		sendMessage(w, http.StatusInternalServerError, msgServer)
		return
	}
	if svcErr.Kind == services.KindInternal {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, svcErr)
	}
	sendMessage(w, svcErr.StatusCode(), svcErr.Message)
}

// decodeJSON reads the request body into dst. An empty body is reported as
// io.EOF so callers can decide whether it is acceptable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// decodeOrReject decodes the body and writes a 400 when it is malformed.
func decodeOrReject(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		sendMessage(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}

// decodeOptional is decodeOrReject that also accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := decodeJSON(w, r, dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	sendMessage(w, http.StatusBadRequest, msgBadRequest)
	return false
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil
}

// queryInt returns the named query parameter, or 0 when absent or invalid.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
