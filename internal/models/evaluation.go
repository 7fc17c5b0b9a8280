package models

// Evaluation holds the four keyword criteria computed for one generated reply.
type Evaluation struct {
	Simplicity         bool `json:"simplicity"`
	TechnicalRelevance bool `json:"technical_relevance"`
	TechnicalBonus     bool `json:"technical_bonus"`
	CreativeBonus      bool `json:"creative_bonus"`
}

// Criterion names, in display order.
const (
	CriterionSimplicity         = "simplicity"
	CriterionTechnicalRelevance = "technical_relevance"
	CriterionTechnicalBonus     = "technical_bonus"
	CriterionCreativeBonus      = "creative_bonus"
)

// Get returns the value of the named criterion. Unknown names report false.
func (e Evaluation) Get(criterion string) bool {
	switch criterion {
	case CriterionSimplicity:
		return e.Simplicity
	case CriterionTechnicalRelevance:
		return e.TechnicalRelevance
	case CriterionTechnicalBonus:
		return e.TechnicalBonus
	case CriterionCreativeBonus:
		return e.CreativeBonus
	}
	return false
}

// EvaluationResponse is returned by /generate and /chatbot/.
type EvaluationResponse struct {
	Response string `json:"response"`
	Evaluation
}

// Tally counts, per criterion, how many evaluations in a session were true.
type Tally struct {
	Evaluations        int `json:"evaluations"`
	Simplicity         int `json:"simplicity"`
	TechnicalRelevance int `json:"technical_relevance"`
	TechnicalBonus     int `json:"technical_bonus"`
	CreativeBonus      int `json:"creative_bonus"`
}

// Add folds one evaluation into the tally.
func (t *Tally) Add(e Evaluation) {
	t.Evaluations++
	if e.Simplicity {
		t.Simplicity++
	}
	if e.TechnicalRelevance {
		t.TechnicalRelevance++
	}
	if e.TechnicalBonus {
		t.TechnicalBonus++
	}
	if e.CreativeBonus {
		t.CreativeBonus++
	}
}

// Count returns the tally for the named criterion.
func (t Tally) Count(criterion string) int {
	switch criterion {
	case CriterionSimplicity:
		return t.Simplicity
	case CriterionTechnicalRelevance:
		return t.TechnicalRelevance
	case CriterionTechnicalBonus:
		return t.TechnicalBonus
	case CriterionCreativeBonus:
		return t.CreativeBonus
	}
	return 0
}
