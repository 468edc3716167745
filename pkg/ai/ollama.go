package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaService implements Advisor using an Ollama local LLM
type OllamaService struct {
	getBaseURL func() string // Dynamic getter for BaseURL
	getModel   func() string // Dynamic getter for Model
	client     *http.Client
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return NewOllamaServiceWithGetters(
		func() string { return baseURL },
		func() string { return model },
	)
}

// NewOllamaServiceWithGetters creates a new Ollama service with dynamic getters
func NewOllamaServiceWithGetters(getBaseURL, getModel func() string) *OllamaService {
	return &OllamaService{
		getBaseURL: getBaseURL,
		getModel:   getModel,
		client:     &http.Client{},
	}
}

// GetAdvice implements Advisor
func (o *OllamaService) GetAdvice(ctx context.Context, remaining int) (Advice, error) {
	prompt := AdvicePrompt(remaining) + `
Respond ONLY with a JSON object: {"advice": "...", "npcName": "..."}`

	text, err := o.generate(ctx, prompt, "json", 0.7, 80)
	if err != nil {
		return Advice{}, err
	}

	var advice Advice
	if err := json.Unmarshal([]byte(extractJSON(text, '{', '}')), &advice); err != nil {
		return Advice{}, fmt.Errorf("failed to parse advice: %w", err)
	}
	return advice, nil
}

// SuggestTasks implements Advisor
func (o *OllamaService) SuggestTasks(ctx context.Context, tasks []string) ([]string, error) {
	prompt := SuggestionsPrompt(tasks) + `
Respond ONLY with a JSON array of strings, no other text.`

	text, err := o.generate(ctx, prompt, "", 0.5, 150)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(extractJSON(text, '[', ']')), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return suggestions, nil
}

// GenerateMemberRole implements Advisor
func (o *OllamaService) GenerateMemberRole(ctx context.Context, email string) (MemberRole, error) {
	prompt := MemberRolePrompt(email) + `
Respond ONLY with a JSON object: {"role": "...", "startingLevel": 1}`

	text, err := o.generate(ctx, prompt, "json", 0.4, 60)
	if err != nil {
		return MemberRole{}, err
	}

	// Models sometimes emit the level as a float
	var raw struct {
		Role          string  `json:"role"`
		StartingLevel float64 `json:"startingLevel"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text, '{', '}')), &raw); err != nil {
		return MemberRole{}, fmt.Errorf("failed to parse member role: %w", err)
	}
	level, err := ParseStartingLevel(raw.StartingLevel)
	if err != nil {
		return MemberRole{}, err
	}
	return MemberRole{Role: raw.Role, StartingLevel: level}, nil
}

// Ping checks that the server answers on /api/tags.
func (o *OllamaService) Ping(ctx context.Context, baseURL string) error {
	if baseURL == "" {
		baseURL = o.getBaseURL()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama API error (%d)", resp.StatusCode)
	}
	return nil
}

func (o *OllamaService) generate(ctx context.Context, prompt, format string, temperature float64, numPredict int) (string, error) {
	url := strings.TrimRight(o.getBaseURL(), "/") + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.getModel(),
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": temperature,
			"num_predict": numPredict,
		},
	}
	if format != "" {
		payload["format"] = format
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return strings.TrimSpace(result.Response), nil
}

// extractJSON trims chatter around the outermost open/close pair.
func extractJSON(text string, opening, closing byte) string {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
