package resume

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFolder is assigned whenever a record carries no folder label.
const DefaultFolder = "General"

// DefaultTemplateID is the fallback template selector.
const DefaultTemplateID = "cyber"

const defaultTitle = "Untitled Resume"

// Record is a single resume as persisted by either storage backend.
// ID is client-generated and immutable; UpdatedAt is owned by the
// persistence facade (adapters never stamp it).
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Folder    string    `json:"folder"`
	UpdatedAt time.Time `json:"updated_at"`
	Content   Content   `json:"content"`
}

// Content is the structured payload of a record. Storage treats it as
// an opaque blob; only the editor and the export renderer look inside.
type Content struct {
	FullName   string       `json:"full_name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	Website    string       `json:"website"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []Skill      `json:"skills"`
	TemplateID string       `json:"template_id"`
}

// Experience is one employment entry.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// Education is one education entry.
type Education struct {
	ID     string `json:"id"`
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// Skill is a rated skill, level 1-5.
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Normalize applies schema defaults in one place. Both adapters call it
// right after deserialization so read sites never default fields
// themselves.
func (r *Record) Normalize() {
	if r.Folder == "" {
		r.Folder = DefaultFolder
	}
	if r.Title == "" {
		r.Title = defaultTitle
	}
	r.Content.normalize()
}

func (c *Content) normalize() {
	if c.TemplateID == "" {
		c.TemplateID = DefaultTemplateID
	}
	if c.Experience == nil {
		c.Experience = []Experience{}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
}

// New builds a blank record in the given folder with a fresh identifier.
// UpdatedAt is left zero; the facade stamps it on save.
func New(folder string) Record {
	r := Record{
		ID:     uuid.NewString(),
		Title:  defaultTitle,
		Folder: folder,
	}
	r.Normalize()
	return r
}

// Clone produces a copy of src under a new identifier with a marked
// title. The source record is not touched.
func Clone(src Record) Record {
	dup := src
	dup.ID = uuid.NewString()
	dup.Title = src.Title + " (Copy)"
	dup.UpdatedAt = time.Time{}
	dup.Content.Experience = append([]Experience{}, src.Content.Experience...)
	dup.Content.Education = append([]Education{}, src.Content.Education...)
	dup.Content.Skills = append([]Skill{}, src.Content.Skills...)
	return dup
}
