package bank

// Question content types.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeAudio = "audio"
)

// Special modifiers overlaying the base scoring rules.
const (
	SpecialHiddenCategory = "hidden-category"
	SpecialDoubleScore    = "double-score"
	SpecialAuction        = "auction"
	SpecialFinal          = "final"
)

// QuestionsPerCategory is fixed by the board layout: one column per value.
const QuestionsPerCategory = 5

// Question is a single board cell. IsAnswered belongs to the session's
// working copy and transitions false->true at most once per game.
type Question struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	Type       string `json:"type"`
	Special    string `json:"special,omitempty"`
	IsAnswered bool   `json:"isAnswered"`
	Media      string `json:"media,omitempty"`
}

// Category is a named group of exactly five increasing-value questions.
type Category struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// Stage is a themed round with its own base score ladder.
type Stage struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	BaseScore  int        `json:"baseScore"`
	Categories []Category `json:"categories"`
}

// Clone deep-copies stages so a session can mutate answered flags without
// touching the pristine source.
func Clone(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	for i, st := range stages {
		out[i] = st
		out[i].Categories = make([]Category, len(st.Categories))
		for j, cat := range st.Categories {
			out[i].Categories[j] = cat
			out[i].Categories[j].Questions = make([]Question, len(cat.Questions))
			copy(out[i].Categories[j].Questions, cat.Questions)
		}
	}
	return out
}
