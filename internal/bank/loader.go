package bank

import (
	"encoding/json"
	"fmt"
	"os"
)

var validTypes = map[string]bool{
	TypeText:  true,
	TypeImage: true,
	TypeAudio: true,
}

var validSpecials = map[string]bool{
	"":                    true,
	SpecialHiddenCategory: true,
	SpecialDoubleScore:    true,
	SpecialAuction:        true,
	SpecialFinal:          true,
}

// Load reads a question bank file, normalizes defaults and validates the
// structural invariants. The returned slice is the pristine source; sessions
// work on a Clone of it.
func Load(path string) ([]Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates question bank JSON.
func Parse(data []byte) ([]Stage, error) {
	var stages []Stage
	if err := json.Unmarshal(data, &stages); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	// Untyped questions default to plain text.
	for i := range stages {
		for j := range stages[i].Categories {
			qs := stages[i].Categories[j].Questions
			for k := range qs {
				if qs[k].Type == "" {
					qs[k].Type = TypeText
				}
			}
		}
	}

	if err := Validate(stages); err != nil {
		return nil, err
	}
	return stages, nil
}

// Validate enforces the board invariants: at least one stage, at least one
// category per stage, exactly five questions per category with scores
// ascending 1x..5x the stage base score, unique question ids per category,
// and known type/special values. Answered flags must be clear in source data.
func Validate(stages []Stage) error {
	if len(stages) == 0 {
		return fmt.Errorf("bank has no stages")
	}

	for _, st := range stages {
		if st.Name == "" {
			return fmt.Errorf("stage %d: empty name", st.ID)
		}
		if st.BaseScore <= 0 {
			return fmt.Errorf("stage %q: base score must be positive, got %d", st.Name, st.BaseScore)
		}
		if len(st.Categories) == 0 {
			return fmt.Errorf("stage %q: no categories", st.Name)
		}

		for _, cat := range st.Categories {
			if cat.Name == "" {
				return fmt.Errorf("stage %q: category %d has empty name", st.Name, cat.ID)
			}
			if len(cat.Questions) != QuestionsPerCategory {
				return fmt.Errorf("category %q: expected %d questions, got %d",
					cat.Name, QuestionsPerCategory, len(cat.Questions))
			}

			seen := make(map[int]bool, len(cat.Questions))
			for i, q := range cat.Questions {
				if seen[q.ID] {
					return fmt.Errorf("category %q: duplicate question id %d", cat.Name, q.ID)
				}
				seen[q.ID] = true

				want := st.BaseScore * (i + 1)
				if q.Score != want {
					return fmt.Errorf("category %q question %d: score %d, want %d (%dx base)",
						cat.Name, q.ID, q.Score, want, i+1)
				}
				if q.Text == "" {
					return fmt.Errorf("category %q question %d: empty text", cat.Name, q.ID)
				}
				if !validTypes[q.Type] {
					return fmt.Errorf("category %q question %d: unknown type %q", cat.Name, q.ID, q.Type)
				}
				if !validSpecials[q.Special] {
					return fmt.Errorf("category %q question %d: unknown special %q", cat.Name, q.ID, q.Special)
				}
				if q.IsAnswered {
					return fmt.Errorf("category %q question %d: source data marked answered", cat.Name, q.ID)
				}
			}
		}
	}

	return nil
}
