// Package evaluator scores generated replies against the four fixed
// keyword criteria. Every function here is pure and safe for concurrent use.
package evaluator

import (
	"strings"

	"nuitbot/internal/models"
)

const (
	// Replies with this many words or more are never considered simple.
	simplicityWordLimit = 100
	simplicityKeyword   = "simple"
)

var (
	technicalKeywords = []string{"web", "api", "dashboard", "notification", "simulation", "data"}
	technicalBonus    = []string{"algorithm", "optimization", "scalable", "efficient"}
	creativeKeywords  = []string{"innovative", "unique", "creative", "humor"}
)

var criteria = []string{
	models.CriterionSimplicity,
	models.CriterionTechnicalRelevance,
	models.CriterionTechnicalBonus,
	models.CriterionCreativeBonus,
}

// Evaluate classifies text against the four criteria. Matching is
// case-insensitive and unanchored, so "webinar" counts as "web".
func Evaluate(text string) models.Evaluation {
	lower := strings.ToLower(text)

	return models.Evaluation{
		Simplicity:         wordCount(text) < simplicityWordLimit && strings.Contains(lower, simplicityKeyword),
		TechnicalRelevance: containsAny(lower, technicalKeywords),
		TechnicalBonus:     containsAny(lower, technicalBonus),
		CreativeBonus:      containsAny(lower, creativeKeywords),
	}
}

// Criteria returns the criterion names in display order.
func Criteria() []string {
	out := make([]string, len(criteria))
	copy(out, criteria)
	return out
}

// Describe returns every criterion with its display label.
func Describe() []models.CriterionInfo {
	infos := make([]models.CriterionInfo, 0, len(criteria))
	for _, name := range criteria {
		infos = append(infos, models.CriterionInfo{Name: name, Label: Label(name)})
	}
	return infos
}

// Label turns a criterion name into its display form: "technical_bonus" -> "Technical Bonus".
func Label(criterion string) string {
	words := strings.Split(criterion, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
