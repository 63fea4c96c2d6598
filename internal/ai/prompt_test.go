package ai

import (
	"strings"
	"testing"
)

func TestBuildPromptDeterministic(t *testing.T) {
	in := PromptInput{
		Instruction: "Write a summary.",
		Fields: []PromptField{
			{Name: "Job title", Value: "Engineer"},
			{Name: "Skills", Value: "Go, SQL"},
		},
	}
	first := BuildPrompt(in)
	second := BuildPrompt(in)
	if first != second {
		t.Fatalf("identical input produced different prompts:\n%q\n%q", first, second)
	}
	if PromptKey(first) != PromptKey(second) {
		t.Fatal("identical prompts produced different keys")
	}
}

func TestBuildPromptMissingFieldsDegradeToEmpty(t *testing.T) {
	out := BuildPrompt(PromptInput{
		Instruction: "Do the thing.",
		Fields:      []PromptField{{Name: "Tone", Value: ""}},
	})
	if !strings.Contains(out, "Tone: ") {
		t.Fatalf("expected empty field to still appear, got %q", out)
	}
}

func TestBuildPromptTruncatesAndSanitizes(t *testing.T) {
	out := BuildPrompt(PromptInput{
		Instruction: "Do the thing.",
		Fields: []PromptField{
			{Name: "Text", Value: "<script>alert(1)</script>hello " + strings.Repeat("x", 100), MaxLen: 20},
		},
	})
	if strings.Contains(out, "<script>") {
		t.Fatalf("markup must be stripped, got %q", out)
	}
	line := out[strings.Index(out, "Text: "):]
	if len(line) > len("Text: ")+20 {
		t.Fatalf("field not truncated: %q", line)
	}
}

func TestPromptKeyFormat(t *testing.T) {
	key := PromptKey("any prompt")
	if !strings.HasPrefix(key, "ai:") {
		t.Fatalf("key must be namespaced, got %q", key)
	}
	hexPart := strings.TrimPrefix(key, "ai:")
	if len(hexPart) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%q)", len(hexPart), hexPart)
	}
	for _, r := range hexPart {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("non-hex rune %q in key %q", r, key)
		}
	}
	if PromptKey("another prompt") == key {
		t.Fatal("distinct prompts should produce distinct keys")
	}
}
