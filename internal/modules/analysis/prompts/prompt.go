package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Prompt is a fully rendered request body for one AI call.
type Prompt struct {
	Name       string
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// Fingerprint identifies the exact rendered text without storing it.
func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(strings.Join([]string{
		strings.TrimSpace(p.Name),
		strconv.Itoa(p.Version),
		strings.TrimSpace(p.System),
		strings.TrimSpace(p.User),
	}, "|")))
	return hex.EncodeToString(h[:])
}
