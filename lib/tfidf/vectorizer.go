// Package tfidf implements text feature extraction with smoothed TF-IDF weighting over a vocabulary
// learned from a training corpus. Vectorizer is immutable after Fit and safe for concurrent use.
package tfidf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyCorpus is returned by Fit if the corpus has no documents or no usable tokens
var ErrEmptyCorpus = errors.New("empty corpus")

// Feature is a single non-zero entry of a sparse feature vector
type Feature struct {
	Index  int
	Weight float64
}

// Vector is a sparse feature vector, entries sorted by index. A nil/empty vector is the zero vector.
type Vector []Feature

// Norm returns euclidean norm of the vector
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, f := range v {
		sum += f.Weight * f.Weight
	}
	return math.Sqrt(sum)
}

// Dense expands the vector to a slice of the given size, entries outside of the size are ignored
func (v Vector) Dense(size int) []float64 {
	res := make([]float64, size)
	for _, f := range v {
		if f.Index >= 0 && f.Index < size {
			res[f.Index] = f.Weight
		}
	}
	return res
}

// Vectorizer keeps vocabulary and idf table learned by Fit
type Vectorizer struct {
	terms []string       // index -> term, first-seen order
	idf   []float64      // index -> idf
	index map[string]int // term -> index
}

// Fit builds vocabulary and idf table from the documents.
// idf(t) = ln((1+N)/(1+df(t))) + 1, where N is number of documents and df is document frequency.
func Fit(documents []string) (*Vectorizer, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("no documents: %w", ErrEmptyCorpus)
	}

	res := &Vectorizer{index: make(map[string]int)}
	df := []int{}
	for _, doc := range documents {
		seen := make(map[int]struct{})
		for _, token := range Tokenize(doc) {
			idx, ok := res.index[token]
			if !ok {
				idx = len(res.terms)
				res.index[token] = idx
				res.terms = append(res.terms, token)
				df = append(df, 0)
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}
	if len(res.terms) == 0 {
		return nil, fmt.Errorf("no tokens in %d documents: %w", len(documents), ErrEmptyCorpus)
	}

	n := float64(len(documents))
	res.idf = make([]float64, len(res.terms))
	for i, d := range df {
		res.idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return res, nil
}

// Transform converts text to l2-normalized tf-idf vector. Out-of-vocabulary tokens are dropped,
// text without known tokens results in the zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	tf := make(map[int]int)
	for _, token := range Tokenize(text) {
		if idx, ok := v.index[token]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}

	res := make(Vector, 0, len(tf))
	for idx, count := range tf {
		res = append(res, Feature{Index: idx, Weight: float64(count) * v.idf[idx]})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })

	// norm is computed after sorting, so the summation order and the result are stable
	norm := res.Norm()
	if norm == 0 {
		return res
	}
	for i := range res {
		res[i].Weight /= norm
	}
	return res
}

// Size returns vocabulary size, i.e. dimension of feature vectors
func (v *Vectorizer) Size() int { return len(v.terms) }

// Index returns vocabulary index of the token
func (v *Vectorizer) Index(token string) (int, bool) {
	idx, ok := v.index[token]
	return idx, ok
}

// Terms returns a copy of vocabulary terms in index order
func (v *Vectorizer) Terms() []string {
	res := make([]string, len(v.terms))
	copy(res, v.terms)
	return res
}

// IDF returns idf weight of the vocabulary entry
func (v *Vectorizer) IDF(idx int) float64 {
	if idx < 0 || idx >= len(v.idf) {
		return 0
	}
	return v.idf[idx]
}

// Validate checks the vectorizer is structurally consistent
func (v *Vectorizer) Validate() error {
	if len(v.terms) == 0 {
		return errors.New("empty vocabulary")
	}
	if len(v.terms) != len(v.idf) {
		return fmt.Errorf("vocabulary size %d doesn't match idf size %d", len(v.terms), len(v.idf))
	}
	if len(v.index) != len(v.terms) {
		return fmt.Errorf("vocabulary has duplicate terms, %d unique of %d", len(v.index), len(v.terms))
	}
	for i, w := range v.idf {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 1 {
			return fmt.Errorf("invalid idf %v for term %q", w, v.terms[i])
		}
	}
	return nil
}

type vectorizerJSON struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// MarshalJSON stores vocabulary as ordered list of terms, the index is implied by the position
func (v *Vectorizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorizerJSON{Terms: v.terms, IDF: v.idf})
}

// UnmarshalJSON restores vocabulary and rebuilds term index
func (v *Vectorizer) UnmarshalJSON(data []byte) error {
	var rec vectorizerJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	v.terms, v.idf = rec.Terms, rec.IDF
	v.index = make(map[string]int, len(rec.Terms))
	for i, t := range rec.Terms {
		v.index[t] = i
	}
	return nil
}
