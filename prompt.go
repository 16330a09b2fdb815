package main

import (
	"fmt"
	"strings"
)

const diffSystemPrompt = `You are a text editing assistant performing changes based on user instructions.
1. Analyze the provided text and the user's instructions.
2. Return ONLY a JSON object describing the changes with the following structure:
{
    "diff_segments": [
        { "type": "equal", "text": "Unchanged text segment" },
        { "type": "delete", "text": "Text segment to be deleted" },
        { "type": "insert", "text": "Text segment to be added" }
    ]
}
- Ensure the segments cover the entire resulting text when concatenated.
- Represent the difference between the input text and the result of applying the instructions.
- 'delete' segments refer to text present in the input but not the output.
- 'insert' segments refer to text present in the output but not the input.
- 'equal' segments refer to text present in both.
Do not include any other text, explanations, or markdown formatting. Just the JSON.`

// decision is one prior accept/reject choice carried into a follow-up round.
type decision struct {
	Kind     segmentKind
	Text     string
	Accepted bool
}

// decisionsFromSegments extracts the changed segments of a version with
// their current decision state. Equal segments carry no decision.
func decisionsFromSegments(segments []segment) []decision {
	var decisions []decision
	for _, seg := range segments {
		if !seg.changeable() {
			continue
		}
		decisions = append(decisions, decision{Kind: seg.Kind, Text: seg.Text, Accepted: seg.Accepted})
	}
	return decisions
}

func formatDecisions(decisions []decision) string {
	var b strings.Builder
	for _, d := range decisions {
		verdict := "[Rejected]"
		if d.Accepted {
			verdict = "[Accepted]"
		}
		fmt.Fprintf(&b, "%s %s: %q\n", verdict, d.Kind, d.Text)
	}
	return b.String()
}

func systemMessage(customInstructions string) chatMessage {
	content := diffSystemPrompt
	if trimmed := strings.TrimSpace(customInstructions); trimmed != "" {
		content += "\n\nAdditional instructions from the user:\n" + trimmed
	}
	return chatMessage{Role: "system", Content: content}
}

// initialMessages builds the first request of a session.
func initialMessages(original, instructions, customInstructions string) []chatMessage {
	user := fmt.Sprintf("Original text: %q\nInstructions: %s\n\nRespond with diff_segments JSON only.",
		original, instructions)
	return []chatMessage{
		systemMessage(customInstructions),
		{Role: "user", Content: user},
	}
}

// followUpMessages builds a second-or-later round. The session is anchored to
// the original text: every round resends it together with all prior
// decisions, and each returned diff stays relative to that original.
func followUpMessages(original, instructions, customInstructions string, decisions []decision) []chatMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Original text: %q\n", original)
	if len(decisions) > 0 {
		b.WriteString("\nPrevious suggestions and the user's verdict on each:\n")
		b.WriteString(formatDecisions(decisions))
	}
	fmt.Fprintf(&b, "\nFollow-up instructions: %s\n", instructions)
	b.WriteString("\nProduce a new diff relative to the ORIGINAL text above, honoring the verdicts. Respond with diff_segments JSON only.")
	return []chatMessage{
		systemMessage(customInstructions),
		{Role: "user", Content: b.String()},
	}
}
