package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authRepo "taskflow-backend/internal/auth/repository"
	authUsecase "taskflow-backend/internal/auth/usecase"
	noteRepo "taskflow-backend/internal/note/repository"
	noteUsecase "taskflow-backend/internal/note/usecase"
	"taskflow-backend/internal/state"
	taskRepo "taskflow-backend/internal/task/repository"
	taskUsecase "taskflow-backend/internal/task/usecase"
	workspaceRepo "taskflow-backend/internal/workspace/repository"
	workspaceUsecase "taskflow-backend/internal/workspace/usecase"
	"taskflow-backend/pkg/ai"
	"taskflow-backend/pkg/config"
	"taskflow-backend/pkg/kvstore"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	store := kvstore.NewMemoryStore()
	container, err := state.Open(context.Background(), store)
	require.NoError(t, err)

	cfg := &config.Config{
		GinMode:         gin.TestMode,
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
		AIProvider:      "none",
	}
	settings := NewRuntimeSettings("http://localhost:11434", "llama3")
	advisor, cleanup := NewAdvisor(context.Background(), cfg, settings)
	t.Cleanup(cleanup)

	h := NewHandler(
		authUsecase.NewAuthUsecase(authRepo.NewUserRepository(container), authRepo.NewFCMTokenRepository(store), cfg),
		workspaceUsecase.NewWorkspaceUsecase(workspaceRepo.NewWorkspaceRepository(container), workspaceRepo.NewSessionRepository(container)),
		taskUsecase.NewTaskUsecase(taskRepo.NewTaskRepository(container), time.UTC),
		noteUsecase.NewNoteUsecase(noteRepo.NewNoteRepository(container)),
		advisor,
		settings,
		cfg,
	)
	return h.Engine()
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		AccessToken string `json:"access_token"`
	}](t, w)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	r := newTestEngine(t)
	w := do(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/dashboard", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWorkspaceFlow(t *testing.T) {
	r := newTestEngine(t)
	alice := login(t, r, "a@x.com")

	w := do(t, r, http.MethodPost, "/api/workspaces", alice, map[string]string{"name": "Launch", "color": "emerald"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ws := decode[struct {
		ID         string `json:"id"`
		Color      string `json:"color"`
		OwnerEmail string `json:"ownerEmail"`
	}](t, w)
	assert.Equal(t, "emerald", ws.Color)
	assert.Equal(t, "a@x.com", ws.OwnerEmail)

	w = do(t, r, http.MethodPost, "/api/tasks", alice, map[string]string{"text": "Ship"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[struct {
		ID          string `json:"id"`
		WorkspaceID string `json:"workspaceId"`
		Status      string `json:"status"`
	}](t, w)
	assert.Equal(t, ws.ID, task.WorkspaceID)
	assert.Equal(t, "todo", task.Status)

	w = do(t, r, http.MethodPost, "/api/tasks/"+task.ID+"/toggle", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/workspaces", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Workspaces []struct {
			Total   int    `json:"total"`
			Done    int    `json:"done"`
			Percent int    `json:"percent"`
			Access  string `json:"access"`
		} `json:"workspaces"`
	}](t, w)
	require.Len(t, list.Workspaces, 1)
	assert.Equal(t, 1, list.Workspaces[0].Done)
	assert.Equal(t, 100, list.Workspaces[0].Percent)
	assert.Equal(t, "Owned", list.Workspaces[0].Access)

	w = do(t, r, http.MethodPost, "/api/workspaces/"+ws.ID+"/members", alice, map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/workspaces/"+ws.ID+"/members", alice, map[string]string{"email": "b@x.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	member := decode[struct {
		Email string        `json:"email"`
		Role  ai.MemberRole `json:"role"`
	}](t, w)
	assert.Equal(t, "b@x.com", member.Email)
	assert.Equal(t, ai.DefaultMemberRole(), member.Role)

	bob := login(t, r, "b@x.com")

	// Alice's token died when bob signed in.
	w = do(t, r, http.MethodGet, "/api/workspaces", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/workspaces/"+ws.ID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access":"Guest of a"`)

	w = do(t, r, http.MethodDelete, "/api/workspaces/"+ws.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/workspaces/missing", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionAndDashboard(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "a@x.com")

	w := do(t, r, http.MethodPost, "/api/workspaces", token, map[string]string{"name": "Launch"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/notes", token, map[string]string{"title": "Plan"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, "/api/session/filter", token, map[string]string{"filter": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[struct {
		Filter string            `json:"filter"`
		Notes  []json.RawMessage `json:"notes"`
	}](t, w)
	assert.Equal(t, "completed", d.Filter)
	assert.Empty(t, d.Notes)

	w = do(t, r, http.MethodPut, "/api/session/active", token, map[string]string{"workspaceId": ""})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/tasks", token, map[string]string{"text": "Nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/session/filter", token, map[string]string{"filter": "weird"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdviceFallsBack(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "a@x.com")

	w := do(t, r, http.MethodGet, "/api/advice", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ai.DefaultAdvice(), decode[ai.Advice](t, w))

	w = do(t, r, http.MethodPost, "/api/tasks/suggestions", token, map[string][]string{"tasks": {"Ship"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ai.DefaultSuggestions(), decode[struct {
		Suggestions []string `json:"suggestions"`
	}](t, w).Suggestions)
}

func TestOllamaSettings(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "a@x.com")

	w := do(t, r, http.MethodPut, "/api/settings/ollama", token, map[string]string{"ollama_base_url": "ftp://nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/settings/ollama", token, map[string]string{"ollama_base_url": "http://gpu-box:11434", "ollama_model": "mistral"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/settings/ollama", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ollama_base_url":"http://gpu-box:11434","ollama_model":"mistral"}`, w.Body.String())
}
