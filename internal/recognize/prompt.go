package recognize

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a financial assistant that extracts structured expense " +
	"information from free-text descriptions. You MUST respond with ONLY a valid JSON " +
	"object. Do not include any explanatory text, markdown formatting, or commentary " +
	"before or after the JSON. Start your response directly with { and end with }."

// buildPrompt renders the user prompt for a recognition request. The
// category list pins the model to known slugs so its output can be
// referenced directly.
func buildPrompt(text, language string, categories []string) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following expense description and extract structured information:\n\n")
	fmt.Fprintf(&sb, "%q\n\n", text)
	if language != "" {
		fmt.Fprintf(&sb, "The text is written in %q.\n\n", language)
	}
	sb.WriteString("Return a JSON object with these fields:\n")
	sb.WriteString("- amount: numeric expense amount, without any currency symbol\n")
	sb.WriteString("- currency: ISO currency code (e.g. \"USD\", \"EUR\", \"RUB\")\n")
	fmt.Fprintf(&sb, "- category: one of: %s\n", strings.Join(categories, ", "))
	sb.WriteString("- description: short description of the expense\n")
	sb.WriteString("- date: expense date in ISO 8601 format if mentioned in the text, otherwise null\n\n")
	sb.WriteString("If a field cannot be determined from the text, return it as null.")

	return sb.String()
}

// cleanMarkdownWrapper strips ```json fences that some models insist on
// adding despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
