package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tasklist/internal/httpapi"
	"tasklist/internal/model"
	"tasklist/internal/store/memorystore"
	"tasklist/internal/task"
)

func newTestServer() *httptest.Server {
	svc := task.NewService(memorystore.NewTaskStore())
	return httptest.NewServer(httpapi.NewServer(svc, httpapi.Options{}))
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeTask(t *testing.T, data []byte) model.Task {
	t.Helper()
	var tk model.Task
	if err := json.Unmarshal(data, &tk); err != nil {
		t.Fatalf("unmarshal task: %v; body=%s", err, string(data))
	}
	return tk
}

func decodeList(t *testing.T, data []byte) []model.Task {
	t.Helper()
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		t.Fatalf("unmarshal list: %v; body=%s", err, string(data))
	}
	return tasks
}

func decodeMessage(t *testing.T, data []byte) string {
	t.Helper()
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal error: %v; body=%s", err, string(data))
	}
	return payload.Message
}

func createTask(t *testing.T, ts *httptest.Server, content string) model.Task {
	t.Helper()
	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/tasks", map[string]any{"content": content})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return decodeTask(t, body)
}

const missingID = "65f1c2a9e4b0a1b2c3d4e5f6"

func TestHealthz(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if resp.Header.Get(httpapi.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestListEmpty(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty array, got %s", string(body))
	}
}

func TestCreateAndList(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "buy milk")
	if created.ID == "" {
		t.Fatalf("expected id")
	}
	if created.Content != "buy milk" {
		t.Fatalf("content=%q", created.Content)
	}
	if created.Completed {
		t.Fatalf("expected completed=false")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", created)
	}

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	items := decodeList(t, body)
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("expected created task in list, got %+v", items)
	}
}

func TestCreateWithCompleted(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/tasks", map[string]any{
		"content":   "already done",
		"completed": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if !decodeTask(t, body).Completed {
		t.Fatalf("expected completed=true")
	}
}

func TestCreate_ValidatesContent(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for _, payload := range []map[string]any{{"content": "  "}, {"completed": true}, {}} {
		resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/tasks", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload=%v status=%d body=%s", payload, resp.StatusCode, string(body))
		}
		if msg := decodeMessage(t, body); msg != "Content of task must be provided" {
			t.Fatalf("message=%q", msg)
		}
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/tasks", strings.NewReader(`{"content":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCreate_FormEncoded(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	form := url.Values{"content": {"from a form"}, "completed": {"true"}}
	resp, err := ts.Client().PostForm(ts.URL+"/api/tasks", form)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	created := decodeTask(t, body)
	if created.Content != "from a form" || !created.Completed {
		t.Fatalf("unexpected task %+v", created)
	}
}

func TestGetTask(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "read a book")

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if got := decodeTask(t, body); got.ID != created.ID {
		t.Fatalf("id mismatch got=%s want=%s", got.ID, created.ID)
	}
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var payload any
		if method == http.MethodPut {
			payload = map[string]any{"completed": true}
		}
		resp, body := doJSON(t, ts.Client(), method, ts.URL+"/api/tasks/not-an-id", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s status=%d body=%s", method, resp.StatusCode, string(body))
		}
		if msg := decodeMessage(t, body); msg != "Invalid task ID format" {
			t.Fatalf("%s message=%q", method, msg)
		}
	}
}

func TestMissingIDIsNotFound(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var payload any
		if method == http.MethodPut {
			payload = map[string]any{"completed": true}
		}
		resp, body := doJSON(t, ts.Client(), method, ts.URL+"/api/tasks/"+missingID, payload)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s status=%d body=%s", method, resp.StatusCode, string(body))
		}
		if msg := decodeMessage(t, body); msg != "Task is not found!" {
			t.Fatalf("%s message=%q", method, msg)
		}
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "write tests")

	resp, body := doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/tasks/"+created.ID, map[string]any{
		"completed": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	updated := decodeTask(t, body)
	if !updated.Completed || updated.Content != "write tests" {
		t.Fatalf("completed-only update changed content: %+v", updated)
	}

	resp, body = doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/tasks/"+created.ID, map[string]any{
		"content": "write more tests",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	updated = decodeTask(t, body)
	if !updated.Completed || updated.Content != "write more tests" {
		t.Fatalf("content-only update changed completed: %+v", updated)
	}
}

func TestUpdateRejectsBlankContent(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "stay put")

	resp, body := doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/tasks/"+created.ID, map[string]any{
		"content": "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
}

func TestUpdateIdempotent(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "same twice")
	payload := map[string]any{"content": "same again", "completed": true}

	_, body := doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/tasks/"+created.ID, payload)
	first := decodeTask(t, body)
	_, body = doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/tasks/"+created.ID, payload)
	second := decodeTask(t, body)

	if first.ID != second.ID || first.Content != second.Content || first.Completed != second.Completed {
		t.Fatalf("business fields drifted: %+v vs %+v", first, second)
	}
}

func TestDeleteReturnsSnapshot(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "remove me")

	resp, body := doJSON(t, ts.Client(), http.MethodDelete, ts.URL+"/api/tasks/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if deleted := decodeTask(t, body); deleted.ID != created.ID || deleted.Content != "remove me" {
		t.Fatalf("unexpected snapshot %+v", deleted)
	}

	resp, body = doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/tasks/"+missingID, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin=%q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut) {
		t.Fatalf("allow-methods=%q", resp.Header.Get("Access-Control-Allow-Methods"))
	}
}

type brokenStore struct{ task.TaskRepository }

func (brokenStore) List(ctx context.Context) ([]model.Task, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	svc := task.NewService(brokenStore{TaskRepository: memorystore.NewTaskStore()})
	ts := httptest.NewServer(httpapi.NewServer(svc, httpapi.Options{}))
	defer ts.Close()

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if msg := decodeMessage(t, body); msg == "" {
		t.Fatalf("expected message")
	}
}

func TestUppercaseIDIsBadRequest(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "case matters")
	upper := strings.ToUpper(created.ID)
	if upper == created.ID {
		t.Skip("generated id has no hex letters")
	}

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/tasks/"+upper, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	if msg := decodeMessage(t, body); msg != "Invalid task ID format" {
		t.Fatalf("message=%q", msg)
	}
}

func TestUnroutedRequestsGetJSONErrors(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	created := createTask(t, ts, "routing")

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPatch, "/api/tasks/" + created.ID, http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/tasks", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nothing-here", http.StatusNotFound},
	}
	for _, tc := range cases {
		resp, body := doJSON(t, ts.Client(), tc.method, ts.URL+tc.path, nil)
		if resp.StatusCode != tc.status {
			t.Fatalf("%s %s status=%d body=%s", tc.method, tc.path, resp.StatusCode, string(body))
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Fatalf("%s %s content-type=%q", tc.method, tc.path, ct)
		}
		if msg := decodeMessage(t, body); msg != http.StatusText(tc.status) {
			t.Fatalf("%s %s message=%q", tc.method, tc.path, msg)
		}
	}

	resp, _ := doJSON(t, ts.Client(), http.MethodPatch, ts.URL+"/api/tasks/"+created.ID, nil)
	if allow := resp.Header.Get("Allow"); !strings.Contains(allow, http.MethodPut) {
		t.Fatalf("Allow=%q", allow)
	}
}

func TestReadyzThroughServer(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, body := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(body))
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil || got["status"] != "ready" {
		t.Fatalf("body=%s err=%v", string(body), err)
	}
}
