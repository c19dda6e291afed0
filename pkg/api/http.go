package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"calcboard/pkg/board"
)

// Handler returns the board's JSON HTTP surface. Polling clients drive
// everything through GET /v1/messages; mutations go through the message
// and reaction endpoints.
func Handler(s *board.Store) http.Handler {
	r := mux.NewRouter()
	h := &handlers{board: s}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/messages", h.listMessages).Methods(http.MethodGet)
	v1.HandleFunc("/messages", h.createMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages", h.clearAll).Methods(http.MethodDelete)
	v1.HandleFunc("/messages/{id}", h.editMessage).Methods(http.MethodPut)
	v1.HandleFunc("/messages/{id}", h.deleteMessage).Methods(http.MethodDelete)
	v1.HandleFunc("/messages/{id}/reactions", h.toggleReaction).Methods(http.MethodPost)

	return r
}
