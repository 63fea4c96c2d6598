package resumes

import "time"

// Resume is a resume document owned by a user. Content is stored as a single
// JSON column; the database never queries inside it.
type Resume struct {
	ID         string
	UserID     string
	Title      string
	TemplateID string
	Content    Content
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Content holds the structured sections of a resume.
type Content struct {
	Basics     Basics       `json:"basics"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

// Basics is the contact/header block.
type Basics struct {
	FullName string `json:"fullName"`
	Headline string `json:"headline"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// Experience is one work-history entry.
type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Bullets   []string `json:"bullets"`
}

// Education is one education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
	Description string `json:"description"`
}
