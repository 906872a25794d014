package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/service"
)

func newTaskRouter(tasks *mockTasks) http.Handler {
	return newTestRouter(&service.Service{Authorization: signedIn(), Tasks: tasks})
}

func sampleTask() models.Task {
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return models.Task{ID: 10, Title: "Buy milk", UserID: 1, CreatedAt: ts, UpdatedAt: ts}
}

func TestListTasks_Paging(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantCode  int
		wantPage  models.Page
		wantField string
	}{
		{name: "defaults", query: "", wantCode: http.StatusOK, wantPage: models.Page{Skip: 0, Limit: 100}},
		{name: "explicit", query: "?skip=5&limit=20", wantCode: http.StatusOK, wantPage: models.Page{Skip: 5, Limit: 20}},
		{name: "max limit", query: "?limit=1000", wantCode: http.StatusOK, wantPage: models.Page{Limit: 1000}},
		{name: "limit too large", query: "?limit=1001", wantCode: http.StatusUnprocessableEntity, wantField: "limit"},
		{name: "negative skip", query: "?skip=-1", wantCode: http.StatusUnprocessableEntity, wantField: "skip"},
		{name: "empty values use defaults", query: "?skip=&limit=", wantCode: http.StatusOK, wantPage: models.Page{Skip: 0, Limit: 100}},
		{name: "empty limit with skip", query: "?skip=3&limit=", wantCode: http.StatusOK, wantPage: models.Page{Skip: 3, Limit: 100}},
		{name: "not a number", query: "?limit=ten", wantCode: http.StatusUnprocessableEntity, wantField: queryField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mockTasks{listResp: []models.Task{sampleTask()}}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodGet, "/api/tasks/"+tc.query, nil, authHeader("tok"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				resp := decodeError(t, w)
				if len(resp.Details) == 0 || resp.Details[0].Field != tc.wantField {
					t.Fatalf("details=%+v, want field %q", resp.Details, tc.wantField)
				}
				if tasks.listCalls != 0 {
					t.Fatalf("service must not be called")
				}
				return
			}
			if tasks.lastPage != tc.wantPage || tasks.lastUserID != 1 {
				t.Fatalf("page=%+v user=%d", tasks.lastPage, tasks.lastUserID)
			}
			var got []models.Task
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(got) != 1 || got[0].Title != "Buy milk" {
				t.Fatalf("unexpected list: %+v", got)
			}
		})
	}
}

func TestListTasks_EmptyIsArray(t *testing.T) {
	r := newTaskRouter(&mockTasks{listResp: []models.Task{}})
	w := doRequest(r, http.MethodGet, "/api/tasks/", nil, authHeader("tok"))
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("got %d %q, want 200 []", w.Code, w.Body.String())
	}
}

func TestListTasks_RequiresToken(t *testing.T) {
	tasks := &mockTasks{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Tasks: tasks})

	w := doRequest(r, http.MethodGet, "/api/tasks/", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
	if tasks.listCalls != 0 {
		t.Fatalf("service must not be reached without a token")
	}
}

func TestCreateTask(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		createErr error
		wantCode  int
		wantField string
		check     func(t *testing.T, in models.TaskCreate)
	}{
		{
			name:     "title only",
			body:     `{"title":"Buy milk"}`,
			wantCode: http.StatusCreated,
			check: func(t *testing.T, in models.TaskCreate) {
				if in.Title != "Buy milk" || in.Description != nil || in.Completed {
					t.Fatalf("unexpected input: %+v", in)
				}
			},
		},
		{
			name:     "all fields",
			body:     `{"title":"Walk dog","description":"twice","completed":true}`,
			wantCode: http.StatusCreated,
			check: func(t *testing.T, in models.TaskCreate) {
				if in.Description == nil || *in.Description != "twice" || !in.Completed {
					t.Fatalf("unexpected input: %+v", in)
				}
			},
		},
		{name: "missing title", body: `{"description":"x"}`, wantCode: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "empty title", body: `{"title":""}`, wantCode: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "title too long", body: `{"title":"` + strings.Repeat("a", 101) + `"}`, wantCode: http.StatusUnprocessableEntity, wantField: "title"},
		{name: "completed wrong type", body: `{"title":"x","completed":"yes"}`, wantCode: http.StatusUnprocessableEntity, wantField: "completed"},
		{name: "malformed", body: `{"title":`, wantCode: http.StatusBadRequest},
		{name: "empty body", body: ``, wantCode: http.StatusBadRequest},
		{name: "storage failure", body: `{"title":"x"}`, createErr: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created := sampleTask()
			tasks := &mockTasks{createResp: created, createErr: tc.createErr}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodPost, "/api/tasks/", strings.NewReader(tc.body), jsonHeader("tok"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantField != "" {
				resp := decodeError(t, w)
				if len(resp.Details) == 0 || resp.Details[0].Field != tc.wantField {
					t.Fatalf("details=%+v, want field %q", resp.Details, tc.wantField)
				}
			}
			if tc.check != nil {
				tc.check(t, tasks.lastCreate)
				if tasks.lastUserID != 1 {
					t.Fatalf("owner=%d, want the caller", tasks.lastUserID)
				}
				var got models.Task
				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if got.ID != created.ID || got.Completed {
					t.Fatalf("unexpected body: %+v", got)
				}
			}
		})
	}
}

func TestGetTask(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		getErr   error
		wantCode int
		wantMsg  string
	}{
		{name: "found", path: "/api/tasks/10", wantCode: http.StatusOK},
		{name: "not found", path: "/api/tasks/10", getErr: service.ErrNotFound, wantCode: http.StatusNotFound, wantMsg: errTaskNotFound},
		{name: "bad id", path: "/api/tasks/abc", wantCode: http.StatusUnprocessableEntity, wantMsg: errValidation},
		{name: "storage failure", path: "/api/tasks/10", getErr: errors.New("db down"), wantCode: http.StatusInternalServerError, wantMsg: errInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mockTasks{getResp: sampleTask(), getErr: tc.getErr}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodGet, tc.path, nil, authHeader("tok"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantMsg != "" {
				if resp := decodeError(t, w); resp.Error != tc.wantMsg {
					t.Fatalf("error=%q, want %q", resp.Error, tc.wantMsg)
				}
				return
			}
			if tasks.lastUserID != 1 || tasks.lastTaskID != 10 {
				t.Fatalf("called with user=%d task=%d", tasks.lastUserID, tasks.lastTaskID)
			}
		})
	}
}

func TestUpdateTask_PatchSemantics(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		check func(t *testing.T, p models.TaskPatch)
	}{
		{
			name: "completed only",
			body: `{"completed":true}`,
			check: func(t *testing.T, p models.TaskPatch) {
				if p.Completed == nil || !*p.Completed || p.Title != nil || p.Description.Set {
					t.Fatalf("unexpected patch: %+v", p)
				}
			},
		},
		{
			name: "description null clears",
			body: `{"description":null}`,
			check: func(t *testing.T, p models.TaskPatch) {
				if !p.Description.Set || p.Description.Value != nil {
					t.Fatalf("expected explicit null, got %+v", p.Description)
				}
			},
		},
		{
			name: "description value",
			body: `{"title":"New","description":"text"}`,
			check: func(t *testing.T, p models.TaskPatch) {
				if p.Title == nil || *p.Title != "New" || !p.Description.Set || *p.Description.Value != "text" {
					t.Fatalf("unexpected patch: %+v", p)
				}
			},
		},
		{
			name: "empty object",
			body: `{}`,
			check: func(t *testing.T, p models.TaskPatch) {
				if !p.IsEmpty() {
					t.Fatalf("expected empty patch, got %+v", p)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mockTasks{updateResp: sampleTask()}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodPut, "/api/tasks/10", strings.NewReader(tc.body), jsonHeader("tok"))
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tasks.lastUserID != 1 || tasks.lastTaskID != 10 {
				t.Fatalf("called with user=%d task=%d", tasks.lastUserID, tasks.lastTaskID)
			}
			tc.check(t, tasks.lastPatch)
		})
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	cases := []struct {
		name      string
		path      string
		body      string
		updateErr error
		wantCode  int
	}{
		{name: "empty title", path: "/api/tasks/10", body: `{"title":""}`, wantCode: http.StatusUnprocessableEntity},
		{name: "title too long", path: "/api/tasks/10", body: `{"title":"` + strings.Repeat("b", 101) + `"}`, wantCode: http.StatusUnprocessableEntity},
		{name: "description wrong type", path: "/api/tasks/10", body: `{"description":5}`, wantCode: http.StatusUnprocessableEntity},
		{name: "not owned", path: "/api/tasks/10", body: `{"completed":true}`, updateErr: service.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "bad id", path: "/api/tasks/x", body: `{"completed":true}`, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mockTasks{updateErr: tc.updateErr}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodPut, tc.path, strings.NewReader(tc.body), jsonHeader("tok"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	cases := []struct {
		name      string
		deleteErr error
		wantCode  int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := &mockTasks{deleteErr: tc.deleteErr}
			r := newTaskRouter(tasks)

			w := doRequest(r, http.MethodDelete, "/api/tasks/10", nil, authHeader("tok"))
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantCode)
			}
			if tc.wantCode == http.StatusNoContent && w.Body.Len() != 0 {
				t.Fatalf("204 must have no body, got %q", w.Body.String())
			}
			if tasks.lastUserID != 1 || tasks.lastTaskID != 10 {
				t.Fatalf("called with user=%d task=%d", tasks.lastUserID, tasks.lastTaskID)
			}
		})
	}
}
