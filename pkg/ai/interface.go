package ai

import (
	"context"
	"fmt"
	"math"
)

// Advice is a short productivity tip attributed to an assistant persona.
type Advice struct {
	Advice  string `json:"advice"`
	NPCName string `json:"npcName"`
}

// MemberRole is the professional role suggested for a newly added member.
type MemberRole struct {
	Role          string `json:"role"`
	StartingLevel int    `json:"startingLevel"`
}

// ParseStartingLevel accepts levels that models emit as JSON numbers, such as
// 3 or 3.0, and rejects fractional ones.
func ParseStartingLevel(level float64) (int, error) {
	if math.IsNaN(level) || math.IsInf(level, 0) || level != math.Trunc(level) {
		return 0, fmt.Errorf("starting level %v is not a whole number", level)
	}
	return int(level), nil
}

// Advisor is the interface for AI-generated advice.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type Advisor interface {
	GetAdvice(ctx context.Context, remaining int) (Advice, error)
	SuggestTasks(ctx context.Context, tasks []string) ([]string, error)
	GenerateMemberRole(ctx context.Context, email string) (MemberRole, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
	ProviderNone   ProviderType = "none"
)

const AssistantName = "TaskFlow AI"

// Canned responses used whenever a provider is missing, slow or wrong.
func DefaultAdvice() Advice {
	return Advice{
		Advice:  "Focus on your most impactful task first to build momentum.",
		NPCName: AssistantName,
	}
}

func DefaultSuggestions() []string {
	return []string{"Review weekly goals", "Schedule focus time", "Clean up inbox"}
}

func DefaultMemberRole() MemberRole {
	return MemberRole{Role: "Contributor", StartingLevel: 1}
}
