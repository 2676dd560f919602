package resume

// Template describes one of the fixed visual layouts the editor offers.
// The catalog is static; layout CSS itself lives in the frontend.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
}

// Templates returns the built-in template catalog.
func Templates() []Template {
	return []Template{
		{ID: "cyber", Name: "Cyber", Description: "Futuristic neon accents.", Colors: []string{"#0ff", "#f0f"}},
		{ID: "minimal", Name: "Minimal", Description: "Whitespace and restraint.", Colors: []string{"#fff", "#111"}},
		{ID: "bold", Name: "Bold", Description: "Large type, strong blocks.", Colors: []string{"#ff0", "#000"}},
		{ID: "terminal", Name: "Terminal", Description: "Monospace, green on black.", Colors: []string{"#0f0", "#000"}},
		{ID: "brutalist", Name: "Brutalist", Description: "High contrast, raw edges.", Colors: []string{"#000", "#fff"}},
		{ID: "neon", Name: "Neon", Description: "Dark mode with glowing lines.", Colors: []string{"#f0f", "#111"}},
		{ID: "quantum", Name: "Quantum", Description: "Scientific and precise.", Colors: []string{"#08f", "#fff"}},
		{ID: "grid", Name: "The Grid", Description: "Highly structured layout.", Colors: []string{"#888", "#000"}},
		{ID: "swiss", Name: "Helvetica", Description: "Asymmetrical typography focus.", Colors: []string{"#fff", "#f08"}},
	}
}

// ValidTemplateID reports whether id names a catalog template.
func ValidTemplateID(id string) bool {
	for _, t := range Templates() {
		if t.ID == id {
			return true
		}
	}
	return false
}
