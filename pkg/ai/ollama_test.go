package ai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ollamaServer answers /api/generate with reply and records the last request.
func ollamaServer(t *testing.T, status int, reply string, last *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			if last != nil {
				var body map[string]any
				_ = json.NewDecoder(r.Body).Decode(&body)
				*last = body
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaService_GetAdvice(t *testing.T) {
	var req map[string]any
	srv := ollamaServer(t, http.StatusOK, `Sure! {"advice": "Batch small tasks.", "npcName": "Coach"}`, &req)

	svc := NewOllamaService(srv.URL+"/", "llama3")
	advice, err := svc.GetAdvice(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, Advice{Advice: "Batch small tasks.", NPCName: "Coach"}, advice)

	assert.Equal(t, "llama3", req["model"])
	assert.Equal(t, "json", req["format"])
	assert.Equal(t, false, req["stream"])
	assert.Contains(t, req["prompt"], "4 tasks remaining")
}

func TestOllamaService_SuggestTasks(t *testing.T) {
	var req map[string]any
	srv := ollamaServer(t, http.StatusOK, "Here you go:\n[\"Write tests\", \"Refactor\"]\nGood luck", &req)

	svc := NewOllamaService(srv.URL, "mistral")
	got, err := svc.SuggestTasks(context.Background(), []string{"Ship", "Review"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Write tests", "Refactor"}, got)
	assert.NotContains(t, req, "format")
	assert.Contains(t, req["prompt"], "Ship, Review")
}

func TestOllamaService_GenerateMemberRole(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK, `{"role": "Growth Manager", "startingLevel": 3.0}`, nil)

	svc := NewOllamaService(srv.URL, "")
	role, err := svc.GenerateMemberRole(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, MemberRole{Role: "Growth Manager", StartingLevel: 3}, role)
}

func TestOllamaService_GenerateMemberRole_FractionalLevel(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK, `{"role": "Growth Manager", "startingLevel": 2.7}`, nil)

	svc := NewOllamaService(srv.URL, "")
	_, err := svc.GenerateMemberRole(context.Background(), "b@x.com")
	assert.Error(t, err)

	// Through the fallback the caller gets the default role instead.
	role, err := NewFallbackAdvisor(svc, time.Second).GenerateMemberRole(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultMemberRole(), role)
}

func TestParseStartingLevel(t *testing.T) {
	tests := []struct {
		in      float64
		want    int
		wantErr bool
	}{
		{in: 3, want: 3},
		{in: 3.0, want: 3},
		{in: 0, want: 0},
		{in: 2.7, wantErr: true},
		{in: -1.5, wantErr: true},
		{in: math.NaN(), wantErr: true},
		{in: math.Inf(1), wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseStartingLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "level %v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestOllamaService_Errors(t *testing.T) {
	srv := ollamaServer(t, http.StatusInternalServerError, "", nil)
	svc := NewOllamaService(srv.URL, "llama3")

	_, err := svc.GetAdvice(context.Background(), 1)
	assert.Error(t, err)

	assert.Error(t, svc.Ping(context.Background(), ""))

	bad := ollamaServer(t, http.StatusOK, "I cannot answer that", nil)
	_, err = NewOllamaService(bad.URL, "llama3").SuggestTasks(context.Background(), nil)
	assert.Error(t, err)
}

func TestOllamaService_DynamicSettings(t *testing.T) {
	var req map[string]any
	srv := ollamaServer(t, http.StatusOK, `["a"]`, &req)

	model := "first"
	svc := NewOllamaServiceWithGetters(func() string { return srv.URL }, func() string { return model })

	_, err := svc.SuggestTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "first", req["model"])

	model = "second"
	_, err = svc.SuggestTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", req["model"])

	require.NoError(t, svc.Ping(context.Background(), ""))
	require.NoError(t, svc.Ping(context.Background(), srv.URL))
}

func TestFallbackOverOllama_MalformedReply(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK, "no json here", nil)
	f := NewFallbackAdvisor(NewOllamaService(srv.URL, "llama3"), 0)

	advice, err := f.GetAdvice(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdvice(), advice)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON(`noise {"a":1} trailing`, '{', '}'))
	assert.Equal(t, `[1,[2]]`, extractJSON(`x [1,[2]] y`, '[', ']'))
	assert.Equal(t, `plain`, extractJSON(`plain`, '{', '}'))
}
