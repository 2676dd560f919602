package resume

// SeedID identifies the example record shown to first-time guests. The
// ID is fixed so repeated list calls hand back the same identity; the
// record is only persisted once the guest actually saves it.
const SeedID = "00000000-0000-4000-8000-000000000001"

// Seed returns the example record used to seed an empty guest scope.
func Seed() Record {
	r := Record{
		ID:     SeedID,
		Title:  "Senior Developer Resume",
		Folder: DefaultFolder,
		Content: Content{
			FullName: "Alex Coder",
			Email:    "alex@example.com",
			Phone:    "+1 (555) 019-2834",
			Location: "Neo Tokyo, Internet",
			Website:  "example.com",
			Summary:  "Full stack engineer focused on resilient backend systems and fast, clean user interfaces.",
			Experience: []Experience{
				{
					ID:          "e1",
					Company:     "Future Corp",
					Role:        "Lead Architect",
					StartDate:   "2022-01",
					EndDate:     "Present",
					Description: "Led the migration to a microservices architecture. Improved system velocity by 300%.",
				},
				{
					ID:          "e2",
					Company:     "Retro Systems",
					Role:        "Frontend Dev",
					StartDate:   "2019-05",
					EndDate:     "2021-12",
					Description: "Built the monitoring dashboard used across the server fleet.",
				},
			},
			Education: []Education{
				{ID: "edu1", School: "University of Digital Arts", Degree: "B.S. Computer Science", Year: "2019"},
			},
			Skills: []Skill{
				{ID: "s1", Name: "React", Level: 5},
				{ID: "s2", Name: "TypeScript", Level: 5},
				{ID: "s3", Name: "Node.js", Level: 4},
				{ID: "s4", Name: "Cyber Security", Level: 3},
			},
			TemplateID: DefaultTemplateID,
		},
	}
	r.Normalize()
	return r
}
