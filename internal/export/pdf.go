package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"resume-builder/internal/resumes"
)

// Template identifiers understood by the renderer. Unknown IDs render as
// "modern" rather than failing the export.
const (
	TemplateModern  = "modern"
	TemplateClassic = "classic"
)

type style struct {
	headerFont  string
	bodyFont    string
	accentR     int
	accentG     int
	accentB     int
	ruleUnder   bool
	nameSize    float64
	sectionSize float64
	bodySize    float64
}

func styleFor(templateID string) style {
	switch templateID {
	case TemplateClassic:
		return style{
			headerFont:  "Times",
			bodyFont:    "Times",
			accentR:     0, accentG: 0, accentB: 0,
			ruleUnder:   true,
			nameSize:    20,
			sectionSize: 13,
			bodySize:    11,
		}
	default:
		return style{
			headerFont:  "Helvetica",
			bodyFont:    "Helvetica",
			accentR:     41, accentG: 98, accentB: 255,
			ruleUnder:   false,
			nameSize:    22,
			sectionSize: 12,
			bodySize:    10,
		}
	}
}

// RenderPDF renders a resume to a single PDF document.
func RenderPDF(r resumes.Resume) ([]byte, error) {
	st := styleFor(r.TemplateID)
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := r.Content

	// Header
	name := c.Basics.FullName
	if name == "" {
		name = r.Title
	}
	pdf.SetFont(st.headerFont, "B", st.nameSize)
	pdf.SetTextColor(st.accentR, st.accentG, st.accentB)
	pdf.CellFormat(0, 10, tr(name), "", 1, "L", false, 0, "")
	pdf.SetTextColor(60, 60, 60)

	if c.Basics.Headline != "" {
		pdf.SetFont(st.bodyFont, "I", st.bodySize+1)
		pdf.CellFormat(0, 6, tr(c.Basics.Headline), "", 1, "L", false, 0, "")
	}

	contact := contactLine(c.Basics)
	if contact != "" {
		pdf.SetFont(st.bodyFont, "", st.bodySize-1)
		pdf.CellFormat(0, 5, tr(contact), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	section := func(title string) {
		pdf.SetFont(st.headerFont, "B", st.sectionSize)
		pdf.SetTextColor(st.accentR, st.accentG, st.accentB)
		pdf.CellFormat(0, 7, tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
		if st.ruleUnder {
			x := pdf.GetX()
			y := pdf.GetY()
			pdf.Line(x, y, 210-18, y)
			pdf.Ln(1)
		}
		pdf.SetTextColor(30, 30, 30)
	}

	body := func(text string) {
		pdf.SetFont(st.bodyFont, "", st.bodySize)
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
	}

	if c.Summary != "" {
		section("Summary")
		body(c.Summary)
		pdf.Ln(2)
	}

	if len(c.Experience) > 0 {
		section("Experience")
		for _, exp := range c.Experience {
			pdf.SetFont(st.bodyFont, "B", st.bodySize+1)
			pdf.CellFormat(0, 6, tr(expTitle(exp)), "", 1, "L", false, 0, "")
			if dates := dateRange(exp.StartDate, exp.EndDate); dates != "" {
				pdf.SetFont(st.bodyFont, "I", st.bodySize-1)
				pdf.CellFormat(0, 5, tr(dates), "", 1, "L", false, 0, "")
			}
			pdf.SetFont(st.bodyFont, "", st.bodySize)
			for _, bullet := range exp.Bullets {
				if strings.TrimSpace(bullet) == "" {
					continue
				}
				pdf.MultiCell(0, 5, tr("  •  "+bullet), "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	if len(c.Education) > 0 {
		section("Education")
		for _, edu := range c.Education {
			pdf.SetFont(st.bodyFont, "B", st.bodySize+1)
			pdf.CellFormat(0, 6, tr(eduTitle(edu)), "", 1, "L", false, 0, "")
			if years := dateRange(edu.StartYear, edu.EndYear); years != "" {
				pdf.SetFont(st.bodyFont, "I", st.bodySize-1)
				pdf.CellFormat(0, 5, tr(years), "", 1, "L", false, 0, "")
			}
			if edu.Description != "" {
				pdf.SetFont(st.bodyFont, "", st.bodySize)
				pdf.MultiCell(0, 5, tr(edu.Description), "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	if len(c.Skills) > 0 {
		section("Skills")
		body(strings.Join(c.Skills, "  ·  "))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func contactLine(b resumes.Basics) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{b.Email, b.Phone, b.Location, b.Website} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "  |  ")
}

func expTitle(e resumes.Experience) string {
	switch {
	case e.Title != "" && e.Company != "":
		return e.Title + " — " + e.Company
	case e.Title != "":
		return e.Title
	default:
		return e.Company
	}
}

func eduTitle(e resumes.Education) string {
	parts := make([]string, 0, 3)
	if e.Degree != "" {
		parts = append(parts, e.Degree)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	title := strings.Join(parts, ", ")
	if e.Institution != "" {
		if title != "" {
			return title + " — " + e.Institution
		}
		return e.Institution
	}
	return title
}

func dateRange(start, end string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " - Present"
	case start == "":
		return end
	default:
		return start + " - " + end
	}
}
