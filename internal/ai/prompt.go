package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"resume-builder/internal/shared/util"
)

// promptKeyPrefix namespaces AI response cache keys.
const promptKeyPrefix = "ai:"

// PromptField is one labeled input to a prompt. Value is sanitized and, when
// MaxLen is positive, truncated before assembly.
type PromptField struct {
	Name   string
	Value  string
	MaxLen int
}

// PromptInput describes a prompt to assemble: a fixed instruction plus
// ordered user-supplied fields.
type PromptInput struct {
	Instruction string
	Fields      []PromptField
}

// BuildPrompt assembles a deterministic prompt string. Identical input always
// yields byte-identical output; missing field values degrade to empty strings.
// Downstream caching relies on this determinism.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(in.Instruction))
	for _, f := range in.Fields {
		value := util.SanitizeFreeText(f.Value)
		if f.MaxLen > 0 {
			value = util.Truncate(value, f.MaxLen)
		}
		b.WriteString("\n")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}

// PromptKey returns the cache key for a prompt: a truncated SHA-256
// fingerprint under the "ai:" namespace.
func PromptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return promptKeyPrefix + hex.EncodeToString(sum[:])[:16]
}
