package genai

import "github.com/opcl/backend/internal/models"

// SanitizeHistory converts an intake chat history into the alternating
// user/model turn sequence the model accepts:
//
//  1. role "ai" maps to "model", everything else to "user";
//  2. consecutive same-role runs are collapsed to their first message (later
//     messages of a run are dropped, not concatenated — long-standing
//     behavior the analysis backend expects, kept as is);
//  3. leading entries are stripped until the history starts with "user";
//  4. trailing "user" entries are stripped, since the new outgoing message
//     supplies the final user turn.
func SanitizeHistory(history []models.ChatMessage) []Content {
	mapped := make([]Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == "ai" {
			role = "model"
		}
		mapped = append(mapped, Content{Role: role, Parts: []Part{{Text: msg.Content}}})
	}

	collapsed := make([]Content, 0, len(mapped))
	lastRole := ""
	for _, c := range mapped {
		if c.Role != lastRole {
			collapsed = append(collapsed, c)
			lastRole = c.Role
		}
	}

	for len(collapsed) > 0 && collapsed[0].Role == "model" {
		collapsed = collapsed[1:]
	}
	for len(collapsed) > 0 && collapsed[len(collapsed)-1].Role == "user" {
		collapsed = collapsed[:len(collapsed)-1]
	}
	return collapsed
}
