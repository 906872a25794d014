package handlers

import (
	"context"
	"net/http"
	"sync"

	"todo_list/internal/models"
	"todo_list/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  models.User
	signUpErr   error
	genToken    service.AccessToken
	genTokenErr error
	parseID     int64
	parseErr    error
	resolveUser models.User
	resolveErr  error

	lastSignUp       service.SignUpInput
	lastGenUsername  string
	lastGenPassword  string
	lastParseToken   string
	lastResolveToken string
}

func (m *mockAuth) SignUp(_ context.Context, in service.SignUpInput) (models.User, error) {
	m.lastSignUp = in
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (service.AccessToken, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int64, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) ResolveUser(_ context.Context, token string) (models.User, error) {
	m.lastResolveToken = token
	return m.resolveUser, m.resolveErr
}

type mockTasks struct {
	mu sync.Mutex

	listResp   []models.Task
	listErr    error
	listCalls  int
	getResp    models.Task
	getErr     error
	createResp models.Task
	createErr  error
	updateResp models.Task
	updateErr  error
	deleteErr  error

	lastUserID int64
	lastTaskID int64
	lastPage   models.Page
	lastCreate models.TaskCreate
	lastPatch  models.TaskPatch
}

func (m *mockTasks) setList(tasks []models.Task, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listResp, m.listErr = tasks, err
}

func (m *mockTasks) List(_ context.Context, userID int64, page models.Page) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastUserID = userID
	m.lastPage = page
	return m.listResp, m.listErr
}

func (m *mockTasks) Get(_ context.Context, userID, taskID int64) (models.Task, error) {
	m.lastUserID, m.lastTaskID = userID, taskID
	return m.getResp, m.getErr
}

func (m *mockTasks) Create(_ context.Context, userID int64, in models.TaskCreate) (models.Task, error) {
	m.lastUserID = userID
	m.lastCreate = in
	return m.createResp, m.createErr
}

func (m *mockTasks) Update(_ context.Context, userID, taskID int64, patch models.TaskPatch) (models.Task, error) {
	m.lastUserID, m.lastTaskID = userID, taskID
	m.lastPatch = patch
	return m.updateResp, m.updateErr
}

func (m *mockTasks) Delete(_ context.Context, userID, taskID int64) error {
	m.lastUserID, m.lastTaskID = userID, taskID
	return m.deleteErr
}

// ---- Shared Test Helpers ----

// signedIn is an auth mock that resolves every token to user 1.
func signedIn() *mockAuth {
	return &mockAuth{resolveUser: models.User{ID: 1, Username: "alice", Email: "alice@x.com", IsActive: true}}
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
