package ai

import (
	"fmt"
	"strings"
)

func AdvicePrompt(remaining int) string {
	return fmt.Sprintf(`Give me a short, professional, and encouraging productivity tip for a user who has %d tasks remaining.
The advice should sound like a modern AI assistant (like Notion AI or ChatGPT).
Keep it under 15 words. For the NPC name, use '%s'.`, remaining, AssistantName)
}

func SuggestionsPrompt(tasks []string) string {
	return fmt.Sprintf(`Analyze these tasks: %s. Suggest 3 logical next steps or relevant professional tasks to improve productivity. Keep them concise.`,
		strings.Join(tasks, ", "))
}

func MemberRolePrompt(email string) string {
	return fmt.Sprintf(`Given the email %s, assign them a modern professional role (e.g. Lead Designer, Backend Architect, Growth Manager) and a seniority level 1-5.`, email)
}
