package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umputun/spam-check/lib/bayes"
	"github.com/umputun/spam-check/lib/tfidf"
)

// Artifact is the complete trained state: vocabulary with idf table, class priors and token likelihoods.
// It is immutable once built and safe for concurrent Predict calls.
type Artifact struct {
	Vectorizer *tfidf.Vectorizer `json:"vectorizer"`
	Classifier *bayes.Classifier `json:"classifier"`
}

// Result is a prediction result. Confidence is the probability of the predicted class, always >= 0.5
type Result struct {
	Spam          bool       `json:"spam"`
	Confidence    float64    `json:"confidence"`
	Probabilities [2]float64 `json:"probabilities"` // ham, spam
}

// Fit builds an artifact from the corpus, extractor first, then classifier
func Fit(corpus Corpus) (*Artifact, error) {
	if len(corpus.Spam) == 0 || len(corpus.Ham) == 0 {
		return nil, fmt.Errorf("corpus has %d spam and %d ham samples: %w",
			len(corpus.Spam), len(corpus.Ham), bayes.ErrDegenerateCorpus)
	}

	docs := make([]string, 0, len(corpus.Spam)+len(corpus.Ham))
	labels := make([]bayes.Class, 0, len(corpus.Spam)+len(corpus.Ham))
	for _, s := range corpus.Spam {
		docs = append(docs, s)
		labels = append(labels, bayes.Spam)
	}
	for _, s := range corpus.Ham {
		docs = append(docs, s)
		labels = append(labels, bayes.Ham)
	}

	vectorizer, err := tfidf.Fit(docs)
	if err != nil {
		return nil, fmt.Errorf("can't fit vectorizer: %w", err)
	}

	vectors := make([]tfidf.Vector, len(docs))
	for i, doc := range docs {
		vectors[i] = vectorizer.Transform(doc)
	}

	classifier, err := bayes.Fit(vectors, labels, vectorizer.Size())
	if err != nil {
		return nil, fmt.Errorf("can't fit classifier: %w", err)
	}
	return &Artifact{Vectorizer: vectorizer, Classifier: classifier}, nil
}

// Predict classifies the text. Empty or unknown text gives the zero vector and prior-driven result.
func (a *Artifact) Predict(text string) Result {
	cls, probs := a.Classifier.Predict(a.Vectorizer.Transform(text))
	return Result{Spam: cls == bayes.Spam, Confidence: probs[cls], Probabilities: probs}
}

// Validate checks the artifact is complete and its parts agree on dimensions
func (a *Artifact) Validate() error {
	if a == nil || a.Vectorizer == nil || a.Classifier == nil {
		return errors.New("incomplete artifact")
	}
	if err := a.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("invalid vectorizer: %w", err)
	}
	if err := a.Classifier.Validate(a.Vectorizer.Size()); err != nil {
		return fmt.Errorf("invalid classifier: %w", err)
	}
	return nil
}

// Marshal serializes the artifact
func (a *Artifact) Marshal() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("can't marshal artifact: %w", err)
	}
	return data, nil
}

// Unmarshal deserializes and validates the artifact. Structurally invalid data is reported as ErrNoArtifact.
func Unmarshal(data []byte) (*Artifact, error) {
	res := &Artifact{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("can't unmarshal artifact, %v: %w", err, ErrNoArtifact)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNoArtifact)
	}
	return res, nil
}
