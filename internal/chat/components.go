package chat

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"nuitbot/internal/evaluator"
	"nuitbot/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Bar colours per criterion, in display order.
var criterionColors = []template.CSS{"#2ecc71", "#3498db", "#9b59b6", "#e74c3c"}

type bar struct {
	Name    string
	Label   string
	Count   int
	Percent int
	Color   template.CSS
}

type badge struct {
	Label  string
	Passed bool
}

type pageData struct {
	Title          string
	Messages       []models.ChatMessage
	MessageCount   int
	TechnicalScore int
	Error          string
	Bars           []bar
	Latest         []badge
	HasEvaluations bool
}

func newPageData(snap Snapshot) pageData {
	data := pageData{
		Title:          "La Nuit de l'Info Assistant",
		Messages:       snap.Messages,
		MessageCount:   len(snap.Messages),
		TechnicalScore: snap.Tally.TechnicalRelevance,
		Error:          snap.Error,
		HasEvaluations: snap.Tally.Evaluations > 0,
	}

	latest, hasLatest := snap.Latest()
	maxCount := 0
	for _, name := range evaluator.Criteria() {
		if c := snap.Tally.Count(name); c > maxCount {
			maxCount = c
		}
	}

	for i, name := range evaluator.Criteria() {
		count := snap.Tally.Count(name)
		percent := 0
		if maxCount > 0 {
			percent = count * 100 / maxCount
		}
		data.Bars = append(data.Bars, bar{
			Name:    name,
			Label:   evaluator.Label(name),
			Count:   count,
			Percent: percent,
			Color:   criterionColors[i%len(criterionColors)],
		})
		if hasLatest {
			data.Latest = append(data.Latest, badge{Label: evaluator.Label(name), Passed: latest.Get(name)})
		}
	}

	return data
}

// Page renders the whole chat screen for one session snapshot.
func Page(snap Snapshot) templ.Component {
	data := newPageData(snap)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	})
}
