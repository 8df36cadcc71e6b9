package llm

import (
	"fmt"
	"strings"

	"mandalart-cli/internal/model"
)

const systemPrompt = `
You are a Mandalart planning expert.
Analyze the user's answers to create a year-plan JSON.

Output format must be strictly JSON:
{
  "centralKeyword": "One sentence summarizing the user's year and aspiration",
  "keyAreas": [
    {
      "title": "Area Title",
      "subGoals": ["Goal 1", "Goal 2", "...", "Goal 8"]
    }
  ]
}

Constraints:
- "keyAreas" must have exactly 8 items.
- "subGoals" must have exactly 8 items.
- Language: Korean (Answers should be in Korean).
- Return ONLY JSON. No markdown.
`

// BuildPrompt renders the generation prompt. Answers are paired with questions by
// position; answers without a matching question are still included.
func BuildPrompt(questions []model.Question, answers []string) string {
	blocks := make([]string, 0, len(answers))
	for i, ans := range answers {
		q := ""
		if i < len(questions) {
			q = questions[i].Text
		}
		blocks = append(blocks, fmt.Sprintf("Q%d. %s\nA: %s", i+1, q, ans))
	}
	return systemPrompt + "\n\n[사용자 답변]\n" + strings.Join(blocks, "\n\n") + "\n\nJSON 출력:"
}
