// Package bayes implements two-class multinomial naive Bayes classifier over tf-idf feature vectors.
package bayes

import (
	"errors"
	"fmt"
	"math"

	"github.com/umputun/spam-check/lib/tfidf"
)

// Class is a document class, index into priors and likelihoods
type Class int

// enum of supported classes, ham has precedence on ties
const (
	Ham  Class = 0
	Spam Class = 1
)

const numClasses = 2

// ErrDegenerateCorpus is returned by Fit if training data can't produce a usable model
var ErrDegenerateCorpus = errors.New("degenerate training corpus")

func (c Class) String() string {
	switch c {
	case Ham:
		return "ham"
	case Spam:
		return "spam"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Classifier keeps class priors and per-class token log-likelihoods. Immutable after Fit.
type Classifier struct {
	Priors         [numClasses]float64   `json:"priors"`          // P(class), sums to 1
	LogLikelihoods [numClasses][]float64 `json:"log_likelihoods"` // log P(token|class), laplace smoothed
}

// Fit trains the classifier. For each class it sums feature weights of all class documents,
// adds one to every token (laplace smoothing) and normalizes by the smoothed total.
func Fit(vectors []tfidf.Vector, labels []Class, size int) (*Classifier, error) {
	if len(vectors) != len(labels) {
		return nil, fmt.Errorf("%d vectors but %d labels: %w", len(vectors), len(labels), ErrDegenerateCorpus)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no documents: %w", ErrDegenerateCorpus)
	}
	if size <= 0 {
		return nil, fmt.Errorf("empty vocabulary: %w", ErrDegenerateCorpus)
	}

	var docs [numClasses]int
	var counts [numClasses][]float64
	for c := range counts {
		counts[c] = make([]float64, size)
	}

	for i, vec := range vectors {
		c := labels[i]
		if c != Ham && c != Spam {
			return nil, fmt.Errorf("unknown class %d for document %d: %w", c, i, ErrDegenerateCorpus)
		}
		docs[c]++
		for _, f := range vec {
			if f.Index < 0 || f.Index >= size {
				return nil, fmt.Errorf("feature index %d out of range [0,%d) in document %d: %w", f.Index, size, i, ErrDegenerateCorpus)
			}
			if f.Weight < 0 || math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) {
				return nil, fmt.Errorf("invalid feature weight %v in document %d: %w", f.Weight, i, ErrDegenerateCorpus)
			}
			counts[c][f.Index] += f.Weight
		}
	}

	res := &Classifier{}
	for c := range counts {
		if docs[c] == 0 {
			return nil, fmt.Errorf("no %s documents: %w", Class(c), ErrDegenerateCorpus)
		}
		res.Priors[c] = float64(docs[c]) / float64(len(vectors))

		total := 0.0
		for _, w := range counts[c] {
			total += w + 1
		}
		res.LogLikelihoods[c] = make([]float64, size)
		for j, w := range counts[c] {
			res.LogLikelihoods[c][j] = math.Log((w + 1) / total)
		}
	}
	return res, nil
}

// Predict returns the most probable class and normalized probabilities of both classes.
// Ties are resolved toward Ham.
func (c *Classifier) Predict(vec tfidf.Vector) (Class, [numClasses]float64) {
	var scores [numClasses]float64
	for cls := range scores {
		scores[cls] = math.Log(c.Priors[cls])
		for _, f := range vec {
			if f.Index < 0 || f.Index >= len(c.LogLikelihoods[cls]) {
				continue
			}
			scores[cls] += f.Weight * c.LogLikelihoods[cls][f.Index]
		}
	}

	// log-sum-exp, shift by max score to avoid overflow
	maxScore := math.Max(scores[Ham], scores[Spam])
	var probs [numClasses]float64
	sum := 0.0
	for cls, s := range scores {
		probs[cls] = math.Exp(s - maxScore)
		sum += probs[cls]
	}
	for cls := range probs {
		probs[cls] /= sum
	}

	if probs[Spam] > probs[Ham] {
		return Spam, probs
	}
	return Ham, probs
}

// Size returns dimension of feature vectors the classifier was trained on
func (c *Classifier) Size() int { return len(c.LogLikelihoods[Ham]) }

// Validate checks the classifier shape matches vocabulary size, priors sum to 1 and all
// log-likelihoods are finite and non-positive. Zero is valid for a one-token vocabulary.
func (c *Classifier) Validate(size int) error {
	sum := 0.0
	for cls, p := range c.Priors {
		if p <= 0 || p >= 1 || math.IsNaN(p) {
			return fmt.Errorf("invalid %s prior %v", Class(cls), p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("priors sum to %v", sum)
	}
	for cls, row := range c.LogLikelihoods {
		if len(row) != size {
			return fmt.Errorf("%s likelihoods size %d, expected %d", Class(cls), len(row), size)
		}
		for j, lp := range row {
			if lp > 0 || math.IsNaN(lp) || math.IsInf(lp, 0) {
				return fmt.Errorf("invalid %s log-likelihood %v at %d", Class(cls), lp, j)
			}
		}
	}
	return nil
}
