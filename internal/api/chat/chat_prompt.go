package chat

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = `
You are a REAL-TIME travel assistant.

CRITICAL RULES:
1. If live data is provided, you MUST USE it in the final answer.
2. If weather data is present, quote the exact temperature, humidity, and description, but keep it casual and tell the user whether it is good to go or not.
3. NEVER give generic seasonal info if live data exists.
4. NEVER mention tools, APIs, or internal processing.
5. Speak directly to the user.
`

// buildContextBlock renders stored preferences as a persistent-memory block
// appended to the user message.
func buildContextBlock(prefs map[string]any) string {
	if len(prefs) == 0 {
		return ""
	}
	rendered, err := json.Marshal(prefs)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\n\nUSER CONTEXT (Persistent Memory):\n%s\n", rendered)
}

// buildGroundingPrompt forces live tool output into the answer so the model
// cannot fall back to generic replies.
func buildGroundingPrompt(message, toolResults string) string {
	return fmt.Sprintf(`
USER QUESTION:
%s

LIVE TOOL DATA (MANDATORY):
%s

INSTRUCTION:
Use ONLY this live data. Do NOT add seasonal or generic info.
Give a direct factual answer.
`, message, toolResults)
}
