package verdict

import (
	"fmt"
	"strings"
)

// DefaultInstructions is the built-in moderation rubric applied when no
// active prompt override exists for the moderate stage.
const DefaultInstructions = `You are a content moderator for an educational resource platform.
Evaluate the submitted content against these criteria:
- Educational value: does the content teach, explain, or inform?
- Quality: is the content coherent, complete, and well presented?
- Relevance: does the content match its stated subject and tags?
- Safety: is the content free of harmful, offensive, or inappropriate material?
- Technical accuracy: is the content factually and technically sound?`

// outputSpec defines the required JSON response shape. It is appended to
// every prompt and cannot be overridden.
const outputSpec = `Respond with a JSON object in exactly this format:
{
  "verdict": "approve" | "reject" | "neutral",
  "confidence": <number between 0.0 and 1.0>,
  "feedback": "<summary of your assessment>",
  "issues": ["<specific problems found, empty if none>"],
  "recommendations": ["<suggested improvements, empty if none>"]
}`

// Descriptor carries the resource and item context needed to build a
// moderation prompt for a single item.
type Descriptor struct {
	Name      string
	Subject   string
	Tags      []string
	ItemType  string
	ItemIndex int
	Content   string
}

// BuildPrompt composes the full moderation prompt for one item from the
// rubric instructions, the resource metadata, and the extracted content.
// The JSON output specification is always appended last.
func BuildPrompt(instructions string, d Descriptor) string {
	var b strings.Builder

	b.WriteString(instructions)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Resource: %s\n", d.Name)
	fmt.Fprintf(&b, "Subject: %s\n", d.Subject)
	if len(d.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(d.Tags, ", "))
	}
	fmt.Fprintf(&b, "Item %d (%s):\n%s\n", d.ItemIndex+1, d.ItemType, d.Content)

	b.WriteString("\n")
	b.WriteString(outputSpec)

	return b.String()
}
