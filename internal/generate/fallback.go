package generate

import (
	"fmt"
	"strings"
)

// Fallback text is deterministic and assembled purely from the user's own
// input, so a degraded provider still returns something editable.

func summaryFallback(jobTitle, years, skills string) string {
	var b strings.Builder
	if jobTitle == "" {
		jobTitle = "Professional"
	}
	b.WriteString(jobTitle)
	if years != "" {
		fmt.Fprintf(&b, " with %s years of experience", years)
	}
	b.WriteString(".")
	if skills != "" {
		fmt.Fprintf(&b, " Skilled in %s.", skills)
	}
	b.WriteString(" Focused on delivering measurable results and growing with every role.")
	return b.String()
}

func bulletsFallback(jobTitle, company string) []string {
	role := jobTitle
	if role == "" {
		role = "the role"
	}
	at := ""
	if company != "" {
		at = " at " + company
	}
	return []string{
		fmt.Sprintf("Carried out core responsibilities of %s%s", role, at),
		"Collaborated with the team to deliver on key objectives",
		"Improved processes and contributed to measurable outcomes",
	}
}

func educationFallback(degree, field, institution string) string {
	var b strings.Builder
	if degree == "" && field == "" {
		b.WriteString("Completed studies")
	} else {
		b.WriteString("Completed ")
		b.WriteString(strings.TrimSpace(strings.Join(nonEmpty(degree, field), " in ")))
	}
	if institution != "" {
		b.WriteString(" at ")
		b.WriteString(institution)
	}
	b.WriteString(", building a strong foundation for professional work.")
	return b.String()
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
