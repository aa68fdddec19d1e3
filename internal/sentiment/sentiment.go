// Package sentiment scores short free-text notes about money on a [-1, 1]
// polarity scale using the VADER compound score.
package sentiment

import (
	"errors"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

var ErrEmptyText = errors.New("empty text")

// Band is a coarse mood classification of a score.
type Band string

const (
	VeryNegative Band = "very_negative"
	Negative     Band = "negative"
	Neutral      Band = "neutral"
	Positive     Band = "positive"
	VeryPositive Band = "very_positive"
)

var advice = map[Band]string{
	VeryNegative: "Consider speaking with a financial advisor",
	Negative:     "Focus on small wins and budgeting",
	Neutral:      "Stay consistent with your financial habits",
	Positive:     "Great mindset for financial growth!",
	VeryPositive: "Excellent financial confidence!",
}

// Advice returns the guidance line shown with a band.
func (b Band) Advice() string {
	return advice[b]
}

// The analyzer parses its embedded lexicon on construction, so it is built
// once on first use and shared; scoring only reads it.
var analyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// Score returns the VADER compound polarity of text. Blank text scores 0.
func Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(analyzer().PolarityScores(text).Compound)
}

// Classify maps a score onto its mood band.
func Classify(score float64) Band {
	switch {
	case score < -0.5:
		return VeryNegative
	case score < -0.1:
		return Negative
	case score < 0.1:
		return Neutral
	case score < 0.5:
		return Positive
	default:
		return VeryPositive
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
