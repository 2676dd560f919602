package worker

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"hydrahunt/internal/resume"
)

// accentColors maps catalog template IDs to the accent used in print
// output. The full layout CSS lives in the editor; the worker only
// needs enough styling for a clean A4 print.
var accentColors = map[string]string{
	"cyber":     "#00b3b3",
	"minimal":   "#111111",
	"bold":      "#c9a800",
	"terminal":  "#0a7a0a",
	"brutalist": "#000000",
	"neon":      "#b000b0",
	"quantum":   "#0066cc",
	"grid":      "#555555",
	"swiss":     "#e00070",
}

const printTemplateSource = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 0; }
  * { margin: 0; padding: 0; box-sizing: border-box; -webkit-print-color-adjust: exact; }
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; padding: 1.6cm; font-size: 10.5pt; line-height: 1.45; }
  h1 { font-size: 22pt; letter-spacing: 0.5px; }
  h2 { font-size: 11pt; text-transform: uppercase; letter-spacing: 1.5px; color: {{.Accent}}; border-bottom: 1.5px solid {{.Accent}}; padding-bottom: 3px; margin: 18px 0 8px; }
  .contact { color: #555; margin-top: 4px; font-size: 9.5pt; }
  .entry { margin-bottom: 10px; }
  .entry-head { display: flex; justify-content: space-between; font-weight: bold; }
  .entry-dates { color: #777; font-weight: normal; font-size: 9pt; }
  .entry-sub { font-style: italic; color: #444; }
  .summary, .entry-desc { white-space: pre-wrap; }
  .skills { display: flex; flex-wrap: wrap; gap: 6px 18px; }
  .skill { display: flex; align-items: center; gap: 6px; }
  .dot { width: 7px; height: 7px; border-radius: 50%; display: inline-block; border: 1px solid {{.Accent}}; }
  .dot.on { background: {{.Accent}}; }
</style>
</head>
<body>
  <header>
    <h1>{{.Content.FullName}}</h1>
    <div class="contact">{{.ContactLine}}</div>
  </header>

  {{if .Content.Summary}}
  <h2>Summary</h2>
  <p class="summary">{{.Content.Summary}}</p>
  {{end}}

  {{if .Content.Experience}}
  <h2>Experience</h2>
  {{range .Content.Experience}}
  <div class="entry">
    <div class="entry-head">
      <span>{{.Role}}</span>
      <span class="entry-dates">{{.StartDate}}{{if .EndDate}} – {{.EndDate}}{{end}}</span>
    </div>
    <div class="entry-sub">{{.Company}}</div>
    {{if .Description}}<div class="entry-desc">{{.Description}}</div>{{end}}
  </div>
  {{end}}
  {{end}}

  {{if .Content.Education}}
  <h2>Education</h2>
  {{range .Content.Education}}
  <div class="entry">
    <div class="entry-head">
      <span>{{.School}}</span>
      <span class="entry-dates">{{.Year}}</span>
    </div>
    <div class="entry-sub">{{.Degree}}</div>
  </div>
  {{end}}
  {{end}}

  {{if .Content.Skills}}
  <h2>Skills</h2>
  <div class="skills">
    {{range .Content.Skills}}
    <div class="skill">
      <span>{{.Name}}</span>
      {{range levelDots .Level}}<span class="dot{{if .}} on{{end}}"></span>{{end}}
    </div>
    {{end}}
  </div>
  {{end}}
</body>
</html>`

var printTemplate = template.Must(
	template.New("print").Funcs(template.FuncMap{
		"levelDots": levelDots,
	}).Parse(printTemplateSource),
)

type printModel struct {
	Content     resume.Content
	Accent      string
	ContactLine string
}

// RenderHTML turns a record into the self-contained HTML document the
// headless browser prints.
func RenderHTML(rec resume.Record) (string, error) {
	accent, ok := accentColors[rec.Content.TemplateID]
	if !ok {
		accent = accentColors[resume.DefaultTemplateID]
	}

	model := printModel{
		Content:     rec.Content,
		Accent:      accent,
		ContactLine: contactLine(rec.Content),
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, model); err != nil {
		return "", fmt.Errorf("execute print template: %w", err)
	}
	return buf.String(), nil
}

func contactLine(c resume.Content) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Email, c.Phone, c.Location, c.Website} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "  ·  ")
}

// levelDots maps a 1-5 skill level onto five booleans for rendering.
func levelDots(level int) []bool {
	if level < 0 {
		level = 0
	}
	if level > 5 {
		level = 5
	}
	dots := make([]bool, 5)
	for i := 0; i < level; i++ {
		dots[i] = true
	}
	return dots
}
