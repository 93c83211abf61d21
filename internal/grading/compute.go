// Package grading computes normalized weighted grades from raw rubric
// scores. It is pure: same inputs always produce the same result, and no
// I/O happens here.
package grading

import (
	"fmt"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// MissingScoreError reports a rubric that was left without a score.
type MissingScoreError struct {
	RubricID uint
	Criteria string
}

func (e MissingScoreError) Error() string {
	return fmt.Sprintf("no score provided for criterion %q (rubric %d)", e.Criteria, e.RubricID)
}

// ScoreOutOfRangeError reports a score outside the rubric's allowed range.
type ScoreOutOfRangeError struct {
	RubricID uint
	Criteria string
	Score    int
	MaxScore int
}

func (e ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %d for criterion %q (rubric %d) must be between 0 and %d", e.Score, e.Criteria, e.RubricID, e.MaxScore)
}

// Compute produces a single normalized grade from raw rubric scores.
//
// Every rubric contributes an equal share of the deliverable's weight:
// rubricWeight = 1/len(rubrics). Each rubric's contribution is
// (score/maxScore) * 100 * rubricWeight * (weightPct/100), so the total is
// always within [0, weightPct] and equals weightPct exactly when every
// score hits its maximum. With zero rubrics the degenerate result is 0.
//
// Rounding is a presentation concern and is not applied here.
func Compute(rubrics []models.Rubric, scores map[uint]int, weightPct float64) (float64, error) {
	rubricWeight := 1.0
	if len(rubrics) > 0 {
		rubricWeight = 1.0 / float64(len(rubrics))
	}

	var grade float64
	for _, rubric := range rubrics {
		score, ok := scores[rubric.ID]
		if !ok {
			return 0, MissingScoreError{RubricID: rubric.ID, Criteria: rubric.Criteria}
		}

		maxScore := rubric.EffectiveMaxScore()
		if score < 0 || score > maxScore {
			return 0, ScoreOutOfRangeError{
				RubricID: rubric.ID,
				Criteria: rubric.Criteria,
				Score:    score,
				MaxScore: maxScore,
			}
		}

		grade += (float64(score) / float64(maxScore)) * 100 * rubricWeight * (weightPct / 100)
	}

	return grade, nil
}
