package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"calcboard/pkg/board"
	"calcboard/pkg/models"
)

type memAdapter struct {
	b         models.Board
	failRead  bool
	failWrite bool
}

func (a *memAdapter) Load() (models.Board, error) {
	if a.failRead {
		return models.Board{}, errors.New("read boom")
	}
	return a.b.Clone(), nil
}

func (a *memAdapter) Store(b models.Board) error {
	if a.failWrite {
		return errors.New("write boom")
	}
	a.b = b.Clone()
	return nil
}

func newServer(t *testing.T) (*httptest.Server, *memAdapter) {
	t.Helper()
	a := &memAdapter{}
	srv := httptest.NewServer(Handler(board.New(a)))
	t.Cleanup(srv.Close)
	return srv, a
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func createMsg(t *testing.T, srv *httptest.Server, name, message string) models.Message {
	t.Helper()
	resp := postJSON(t, srv.URL+"/v1/messages", map[string]string{"name": name, "message": message})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	var out struct {
		Message models.Message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return out.Message
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateAndList(t *testing.T) {
	srv, _ := newServer(t)
	m := createMsg(t, srv, "Al", "hi")
	if m.ID == "" || m.Name != "Al" || m.Message != "hi" || m.Edited {
		t.Fatalf("unexpected created message: %+v", m)
	}

	resp, err := http.Get(srv.URL + "/v1/messages")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	var out models.Board
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(out.Messages) != 1 || out.Messages[0].ID != m.ID {
		t.Fatalf("unexpected board: %+v", out)
	}
}

func TestCreateMissingFields(t *testing.T) {
	srv, _ := newServer(t)
	for _, body := range []map[string]string{
		{"name": "Al"},
		{"message": "hi"},
		{},
	} {
		resp := postJSON(t, srv.URL+"/v1/messages", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestListDegradesOnReadFailure(t *testing.T) {
	srv, a := newServer(t)
	createMsg(t, srv, "Al", "hi")
	a.failRead = true
	resp, err := http.Get(srv.URL + "/v1/messages")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read failure must stay 200, got %d", resp.StatusCode)
	}
	var out models.Board
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(out.Messages) != 0 {
		t.Fatalf("expected empty degraded board, got %+v", out)
	}
}

func TestEditStatusMapping(t *testing.T) {
	srv, _ := newServer(t)
	m := createMsg(t, srv, "Al", "hi")

	resp := doJSON(t, http.MethodPut, srv.URL+"/v1/messages/"+m.ID, map[string]string{"name": "Bo", "message": "x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("name mismatch: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/v1/messages/no-such-id", map[string]string{"name": "Al", "message": "x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/v1/messages/"+m.ID, map[string]string{"name": "Al"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing message: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/v1/messages/"+m.ID, map[string]string{"name": "Al", "message": "hi there"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Message models.Message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode edit: %v", err)
	}
	if out.Message.Message != "hi there" || !out.Message.Edited || out.Message.EditedAt == 0 {
		t.Fatalf("unexpected edited message: %+v", out.Message)
	}
}

func TestDeleteStatusMapping(t *testing.T) {
	srv, _ := newServer(t)
	m := createMsg(t, srv, "Al", "hi")

	resp := doJSON(t, http.MethodDelete, srv.URL+"/v1/messages/"+m.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing name: expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/v1/messages/"+m.ID+"?name=Bo", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("name mismatch: expected 403, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/v1/messages/no-such-id?name=Al", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/v1/messages/"+m.ID+"?name=Al", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || !out.Success {
		t.Fatalf("expected success response, got %+v err=%v", out, err)
	}
}

func TestToggleReactionEndpoint(t *testing.T) {
	srv, _ := newServer(t)
	m := createMsg(t, srv, "Al", "hi")

	resp := postJSON(t, srv.URL+"/v1/messages/"+m.ID+"/reactions", map[string]string{"reaction": "👍", "name": "Bo"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle on: expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Success   bool                `json:"success"`
		Reactions map[string][]string `json:"reactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode toggle: %v", err)
	}
	if !out.Success || len(out.Reactions["👍"]) != 1 || out.Reactions["👍"][0] != "Bo" {
		t.Fatalf("unexpected toggle response: %+v", out)
	}

	resp2 := postJSON(t, srv.URL+"/v1/messages/"+m.ID+"/reactions", map[string]string{"reaction": "👍", "name": "Bo"})
	defer resp2.Body.Close()
	var out2 struct {
		Success   bool                `json:"success"`
		Reactions map[string][]string `json:"reactions"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&out2); err != nil {
		t.Fatalf("decode toggle off: %v", err)
	}
	if !out2.Success || len(out2.Reactions) != 0 {
		t.Fatalf("expected empty reactions after toggle off, got %+v", out2)
	}

	resp3 := postJSON(t, srv.URL+"/v1/messages/no-such-id/reactions", map[string]string{"reaction": "👍", "name": "Bo"})
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", resp3.StatusCode)
	}

	resp4 := postJSON(t, srv.URL+"/v1/messages/"+m.ID+"/reactions", map[string]string{"name": "Bo"})
	resp4.Body.Close()
	if resp4.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing reaction: expected 400, got %d", resp4.StatusCode)
	}
}

func TestClearAllEndpoint(t *testing.T) {
	srv, _ := newServer(t)
	createMsg(t, srv, "Al", "hi")
	createMsg(t, srv, "Bo", "yo")

	resp := doJSON(t, http.MethodDelete, srv.URL+"/v1/messages", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", resp.StatusCode)
	}

	list, err := http.Get(srv.URL + "/v1/messages")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer list.Body.Close()
	var out models.Board
	if err := json.NewDecoder(list.Body).Decode(&out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(out.Messages) != 0 {
		t.Fatalf("expected cleared board, got %+v", out)
	}
}

func TestWriteFailureIs500(t *testing.T) {
	srv, a := newServer(t)
	a.failWrite = true
	resp := postJSON(t, srv.URL+"/v1/messages", map[string]string{"name": "Al", "message": "hi"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("write failure: expected 500, got %d", resp.StatusCode)
	}
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if out.Error == "" || out.Error == "write boom" {
		t.Fatalf("storage errors must be generic, got %q", out.Error)
	}
}
