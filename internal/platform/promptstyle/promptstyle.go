package promptstyle

import "strings"

const marker = "LOVEPATTERN_PROMPT_STYLE_V1"

// ApplySystem prepends the shared output-discipline block to a system
// prompt. It is idempotent.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou produce content for LovePattern relationship pattern reports.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nUse the provided client data as grounding; do not invent biographical facts.")
	b.WriteString("\nNever give medical, legal or diagnostic claims.")
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "json":
		b.WriteString("\nReturn a single JSON object that conforms to the requested shape and contains no extra keys.")
	default:
		b.WriteString("\nBe concise and structured.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
