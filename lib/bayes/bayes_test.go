package bayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spam-check/lib/tfidf"
)

func TestFit(t *testing.T) {
	vectors := []tfidf.Vector{
		{{Index: 0, Weight: 1}},                          // spam
		{{Index: 0, Weight: 0.5}, {Index: 1, Weight: 2}}, // spam
		{{Index: 2, Weight: 1}},                          // ham
	}
	labels := []Class{Spam, Spam, Ham}

	c, err := Fit(vectors, labels, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, c.Priors[Ham], 1e-12)
	assert.InDelta(t, 2.0/3.0, c.Priors[Spam], 1e-12)
	assert.Equal(t, 3, c.Size())

	// spam counts: [1.5, 2, 0] + 1 -> [2.5, 3, 1], total 6.5
	assert.InDelta(t, math.Log(2.5/6.5), c.LogLikelihoods[Spam][0], 1e-12)
	assert.InDelta(t, math.Log(3/6.5), c.LogLikelihoods[Spam][1], 1e-12)
	assert.InDelta(t, math.Log(1/6.5), c.LogLikelihoods[Spam][2], 1e-12)
	// ham counts: [0, 0, 1] + 1 -> [1, 1, 2], total 4
	assert.InDelta(t, math.Log(1.0/4.0), c.LogLikelihoods[Ham][0], 1e-12)
	assert.InDelta(t, math.Log(2.0/4.0), c.LogLikelihoods[Ham][2], 1e-12)

	for cls := range c.LogLikelihoods {
		sum := 0.0
		for _, lp := range c.LogLikelihoods[cls] {
			assert.Less(t, lp, 0.0, "likelihood strictly positive and below one")
			sum += math.Exp(lp)
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	}
	assert.NoError(t, c.Validate(3))
}

func TestFit_Errors(t *testing.T) {
	vec := tfidf.Vector{{Index: 0, Weight: 1}}
	tests := []struct {
		name    string
		vectors []tfidf.Vector
		labels  []Class
		size    int
		err     string
	}{
		{name: "no documents", size: 1, err: "no documents"},
		{name: "label mismatch", vectors: []tfidf.Vector{vec}, labels: []Class{Spam, Ham}, size: 1, err: "labels"},
		{name: "empty vocabulary", vectors: []tfidf.Vector{vec}, labels: []Class{Spam}, size: 0, err: "empty vocabulary"},
		{name: "no ham", vectors: []tfidf.Vector{vec, vec}, labels: []Class{Spam, Spam}, size: 1, err: "no ham documents"},
		{name: "no spam", vectors: []tfidf.Vector{vec}, labels: []Class{Ham}, size: 1, err: "no spam documents"},
		{name: "unknown class", vectors: []tfidf.Vector{vec}, labels: []Class{Class(5)}, size: 1, err: "unknown class"},
		{name: "index out of range", vectors: []tfidf.Vector{{{Index: 3, Weight: 1}}, vec}, labels: []Class{Spam, Ham},
			size: 1, err: "out of range"},
		{name: "negative weight", vectors: []tfidf.Vector{{{Index: 0, Weight: -1}}, vec}, labels: []Class{Spam, Ham},
			size: 1, err: "invalid feature weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.vectors, tt.labels, tt.size)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDegenerateCorpus)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestClassifier_Predict(t *testing.T) {
	vectors := []tfidf.Vector{
		{{Index: 0, Weight: 0.8}, {Index: 1, Weight: 0.6}},
		{{Index: 1, Weight: 1}},
		{{Index: 2, Weight: 0.6}, {Index: 3, Weight: 0.8}},
		{{Index: 3, Weight: 1}},
	}
	c, err := Fit(vectors, []Class{Spam, Spam, Ham, Ham}, 4)
	require.NoError(t, err)

	tests := []struct {
		name string
		vec  tfidf.Vector
		want Class
	}{
		{name: "spam tokens", vec: tfidf.Vector{{Index: 0, Weight: 1}}, want: Spam},
		{name: "ham tokens", vec: tfidf.Vector{{Index: 3, Weight: 1}}, want: Ham},
		{name: "zero vector with equal priors resolves to ham", vec: tfidf.Vector{}, want: Ham},
		{name: "unknown index ignored", vec: tfidf.Vector{{Index: 100, Weight: 1}}, want: Ham},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, probs := c.Predict(tt.vec)
			assert.Equal(t, tt.want, cls)
			assert.InDelta(t, 1.0, probs[Ham]+probs[Spam], 1e-9)
			assert.GreaterOrEqual(t, probs[cls], 0.5)
		})
	}

	t.Run("zero vector gives priors", func(t *testing.T) {
		c, err := Fit(vectors, []Class{Spam, Spam, Spam, Ham}, 4)
		require.NoError(t, err)
		cls, probs := c.Predict(nil)
		assert.Equal(t, Spam, cls)
		assert.InDelta(t, 0.75, probs[Spam], 1e-12)
		assert.InDelta(t, 0.25, probs[Ham], 1e-12)
	})

	t.Run("large weights don't overflow", func(t *testing.T) {
		cls, probs := c.Predict(tfidf.Vector{{Index: 0, Weight: 5000}})
		assert.Equal(t, Spam, cls)
		assert.False(t, math.IsNaN(probs[Spam]))
		assert.InDelta(t, 1.0, probs[Spam], 1e-9)
	})
}

func TestClassifier_Validate(t *testing.T) {
	good := func() *Classifier {
		return &Classifier{
			Priors:         [2]float64{0.5, 0.5},
			LogLikelihoods: [2][]float64{{math.Log(0.5), math.Log(0.5)}, {math.Log(0.25), math.Log(0.75)}},
		}
	}
	assert.NoError(t, good().Validate(2))

	c := good()
	assert.ErrorContains(t, c.Validate(3), "size")

	c = good()
	c.Priors = [2]float64{0.7, 0.7}
	assert.ErrorContains(t, c.Validate(2), "priors sum")

	c = good()
	c.Priors = [2]float64{0, 1}
	assert.ErrorContains(t, c.Validate(2), "invalid ham prior")

	c = good()
	c.LogLikelihoods[Spam][1] = math.Inf(-1)
	assert.ErrorContains(t, c.Validate(2), "invalid spam log-likelihood")

	c = good()
	c.LogLikelihoods[Ham][0] = 0.1
	assert.ErrorContains(t, c.Validate(2), "invalid ham log-likelihood")

	single := &Classifier{Priors: [2]float64{0.5, 0.5}, LogLikelihoods: [2][]float64{{0}, {0}}}
	assert.NoError(t, single.Validate(1), "log(1) is valid for one-token vocabulary")
}

func TestClass_String(t *testing.T) {
	assert.Equal(t, "ham", Ham.String())
	assert.Equal(t, "spam", Spam.String())
	assert.Equal(t, "class(7)", Class(7).String())
}
