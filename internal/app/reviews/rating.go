// Package reviews records contractor evaluations and summarizes them.
package reviews

import (
	"math"
	"unicode/utf8"

	"github.com/dalemusser/safetyapp/internal/app/system/inputval"
	"github.com/dalemusser/safetyapp/internal/domain/models"
)

// Rating bounds.
const (
	MinCommentLength = 10
	MaxRating        = 5
)

// OverallRating is the mean of the five sub-metrics rounded to the
// nearest half star.
func OverallRating(m models.ReviewMetrics) float64 {
	sum := m.Punctuality + m.Quality + m.Safety + m.Communication + m.ProfessionalBehavior
	return math.Round(sum/5*2) / 2
}

// ResolveRating picks the rating to store. An explicit input wins; an
// existing review keeps its stored rating; only a new review without one
// derives it from its metrics.
func ResolveRating(input float64, metrics models.ReviewMetrics, existing *models.Review) float64 {
	if input > 0 {
		return input
	}
	if existing != nil {
		return existing.Rating
	}
	return OverallRating(metrics)
}

// Validate checks a review whose rating is resolved and whose comment is
// already sanitized.
func Validate(r models.Review) error {
	res := inputval.Validate(r.Metrics)
	if r.Rating <= 0 || r.Rating > MaxRating {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "rating",
			Message: "Rating must be greater than 0 and at most 5.",
		})
	}
	if utf8.RuneCountInString(r.Comment) < MinCommentLength {
		res.Errors = append(res.Errors, inputval.FieldError{
			Field:   "comment",
			Message: "Comment must be at least 10 characters.",
		})
	}
	return res.Err()
}

// Summary aggregates a contractor's reviews.
type Summary struct {
	ContractorID     string               `json:"contractorId,omitempty"`
	Count            int                  `json:"count"`
	AverageRating    float64              `json:"averageRating"`
	Metrics          models.ReviewMetrics `json:"metrics"`
	Distribution     map[int]int          `json:"distribution"`
	RecommendPercent float64              `json:"recommendPercent"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Summarize computes averages, the 1..5 star distribution by rounded
// rating, and the share of reviewers who would recommend.
func Summarize(rs []models.Review) Summary {
	s := Summary{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	if len(rs) == 0 {
		return s
	}

	var rating float64
	var m models.ReviewMetrics
	recommend := 0
	for _, r := range rs {
		rating += r.Rating
		m.Punctuality += r.Metrics.Punctuality
		m.Quality += r.Metrics.Quality
		m.Safety += r.Metrics.Safety
		m.Communication += r.Metrics.Communication
		m.ProfessionalBehavior += r.Metrics.ProfessionalBehavior
		if r.WouldRecommend {
			recommend++
		}

		star := int(math.Round(r.Rating))
		if star < 1 {
			star = 1
		}
		if star > MaxRating {
			star = MaxRating
		}
		s.Distribution[star]++
	}

	n := float64(len(rs))
	s.Count = len(rs)
	s.AverageRating = round1(rating / n)
	s.Metrics = models.ReviewMetrics{
		Punctuality:          round1(m.Punctuality / n),
		Quality:              round1(m.Quality / n),
		Safety:               round1(m.Safety / n),
		Communication:        round1(m.Communication / n),
		ProfessionalBehavior: round1(m.ProfessionalBehavior / n),
	}
	s.RecommendPercent = math.Round(float64(recommend) / n * 100)
	return s
}
