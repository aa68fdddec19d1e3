package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	assert.Zero(t, Score("   "), "blank")
	assert.Zero(t, Score("paid the rent on tuesday"), "no polar words")

	assert.Greater(t, Score("I feel good about my savings"), 0.1)
	assert.Less(t, Score("Feeling stressed and worried about my debt"), -0.1)
	assert.Less(t, Score("I am not happy"), 0.0, "negation flips polarity")
	assert.Greater(t, Score("very good"), Score("good"), "intensifier raises magnitude")
	assert.Greater(t, Score("Great!!!"), Score("Great"), "exclamation raises magnitude")
}

func TestScoreIsDeterministic(t *testing.T) {
	text := "Budget is tight but I'm hopeful"
	assert.Equal(t, Score(text), Score(text))
}

func TestScoreBounds(t *testing.T) {
	for _, text := range []string{
		"really really really terrible awful horrible worst",
		"so so so awesome best excellent amazing love",
		"not not not bad",
	} {
		s := Score(text)
		assert.GreaterOrEqual(t, s, -1.0, text)
		assert.LessOrEqual(t, s, 1.0, text)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{-0.9, VeryNegative},
		{-0.5, Negative},
		{-0.2, Negative},
		{-0.1, Neutral},
		{0, Neutral},
		{0.1, Positive},
		{0.49, Positive},
		{0.5, VeryPositive},
		{1, VeryPositive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %v", tt.score)
	}
}

func TestScoreBands(t *testing.T) {
	assert.Equal(t, Neutral, Classify(Score("paid the rent on tuesday")))
	assert.Equal(t, VeryPositive, Classify(Score("I love my job and I am so happy with my excellent savings")))
	assert.Equal(t, VeryNegative, Classify(Score("This is terrible, I hate being in awful debt")))
}

func TestBandAdvice(t *testing.T) {
	assert.Equal(t, "Consider speaking with a financial advisor", VeryNegative.Advice())
	assert.Equal(t, "Excellent financial confidence!", VeryPositive.Advice())
	assert.Empty(t, Band("unknown").Advice())
}
