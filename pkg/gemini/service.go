package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"taskflow-backend/pkg/ai"
)

const DefaultModel = "gemini-1.5-flash"

// GeminiService implements ai.Advisor with the Gemini SDK. Each operation has
// its own model handle so response schemas never race between requests.
type GeminiService struct {
	client      *genai.Client
	advice      *genai.GenerativeModel
	suggestions *genai.GenerativeModel
	memberRole  *genai.GenerativeModel
}

func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for Gemini provider")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client: client,
		advice: jsonModel(client, model, &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"advice":  {Type: genai.TypeString},
				"npcName": {Type: genai.TypeString},
			},
			Required: []string{"advice", "npcName"},
		}),
		suggestions: jsonModel(client, model, &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}),
		memberRole: jsonModel(client, model, &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"role":          {Type: genai.TypeString},
				"startingLevel": {Type: genai.TypeNumber},
			},
			Required: []string{"role", "startingLevel"},
		}),
	}, nil
}

func jsonModel(client *genai.Client, name string, schema *genai.Schema) *genai.GenerativeModel {
	m := client.GenerativeModel(name)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = schema
	return m
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

// GetAdvice implements ai.Advisor
func (g *GeminiService) GetAdvice(ctx context.Context, remaining int) (ai.Advice, error) {
	var advice ai.Advice
	if err := generateJSON(ctx, g.advice, ai.AdvicePrompt(remaining), &advice); err != nil {
		return ai.Advice{}, err
	}
	return advice, nil
}

// SuggestTasks implements ai.Advisor
func (g *GeminiService) SuggestTasks(ctx context.Context, tasks []string) ([]string, error) {
	var suggestions []string
	if err := generateJSON(ctx, g.suggestions, ai.SuggestionsPrompt(tasks), &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// GenerateMemberRole implements ai.Advisor
func (g *GeminiService) GenerateMemberRole(ctx context.Context, email string) (ai.MemberRole, error) {
	var raw struct {
		Role          string  `json:"role"`
		StartingLevel float64 `json:"startingLevel"`
	}
	if err := generateJSON(ctx, g.memberRole, ai.MemberRolePrompt(email), &raw); err != nil {
		return ai.MemberRole{}, err
	}
	level, err := ai.ParseStartingLevel(raw.StartingLevel)
	if err != nil {
		return ai.MemberRole{}, err
	}
	return ai.MemberRole{Role: raw.Role, StartingLevel: level}, nil
}

func generateJSON(ctx context.Context, model *genai.GenerativeModel, prompt string, out any) error {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Errorf("gemini API error: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return errors.New("no content in gemini response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				return strings.TrimSpace(string(text))
			}
		}
	}
	return ""
}
