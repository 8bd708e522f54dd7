// Package model manages the lifecycle of the trained spam classifier: load the persisted artifact or
// train a new one from the embedded seed corpus, publish it for concurrent readers and classify texts.
//
// Manager starts Untrained. Load reads the artifact from the Store and falls back to Train if the artifact
// is missing or invalid. Predict performs Load lazily on the first call. Train can be called at any time,
// the new artifact replaces the old one atomically, so in-flight Predict calls are never affected.
package model

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// State of the manager
type State int

// enum of manager states
const (
	Untrained State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "untrained"
}

// Config defines manager parameters
type Config struct {
	Store   Store        // artifact storage, required
	Samples SampleSource // extra training samples, optional
}

// Info is a summary of the published artifact
type Info struct {
	State      State      `json:"state"`
	Vocabulary int        `json:"vocabulary"` // vocabulary size
	Priors     [2]float64 `json:"priors"`     // ham, spam
	Version    int64      `json:"version"`    // incremented on every published artifact
	Source     string     `json:"source"`     // "loaded" or "trained"
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Manager owns the trained artifact, thread-safe
type Manager struct {
	Config
	current atomic.Pointer[published]
	version atomic.Int64
	lock    sync.Mutex // serializes writers, readers use current only
}

type published struct {
	artifact *Artifact
	info     Info
}

// NewManager makes a new untrained Manager
func NewManager(cfg Config) *Manager {
	return &Manager{Config: cfg}
}

// Load reads the persisted artifact, on any failure trains a new one and persists it.
// Errors only if training is impossible.
func (m *Manager) Load(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.load(ctx)
}

// Train fits a new artifact on the seed corpus and extra samples, publishes and persists it.
// If persisting fails the new artifact is still published and the error returned.
func (m *Manager) Train(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.train(ctx)
}

// Predict classifies the text, loading the model on the first call
func (m *Manager) Predict(ctx context.Context, text string) (Result, error) {
	p := m.current.Load()
	if p == nil {
		if err := m.ensureReady(ctx); err != nil {
			return Result{}, err
		}
		p = m.current.Load()
	}
	return p.artifact.Predict(text), nil
}

// Example returns a random example from the embedded spam or ham samples
func (m *Manager) Example(wantSpam bool) string {
	return Example(wantSpam)
}

// State returns current state
func (m *Manager) State() State {
	if m.current.Load() == nil {
		return Untrained
	}
	return Ready
}

// Info returns summary of the published artifact, zero Info with Untrained state if none
func (m *Manager) Info() Info {
	p := m.current.Load()
	if p == nil {
		return Info{State: Untrained}
	}
	return p.info
}

// Artifact returns the published artifact, nil if untrained
func (m *Manager) Artifact() *Artifact {
	p := m.current.Load()
	if p == nil {
		return nil
	}
	return p.artifact
}

func (m *Manager) ensureReady(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.current.Load() != nil {
		return nil // loaded by another caller
	}
	return m.load(ctx)
}

func (m *Manager) load(ctx context.Context) error {
	if m.Store == nil {
		return errors.New("no artifact store")
	}
	a, err := m.Store.Load(ctx)
	if err == nil {
		err = a.Validate()
	}
	if err != nil {
		if errors.Is(err, ErrNoArtifact) {
			log.Printf("[INFO] no usable artifact, training a new one: %v", err)
		} else {
			log.Printf("[WARN] can't load artifact, training a new one: %v", err)
		}
		terr := m.train(ctx)
		if terr == nil {
			return nil
		}
		if m.current.Load() == nil {
			return terr
		}
		log.Printf("[WARN] trained artifact not persisted: %v", terr)
		return nil
	}
	m.publish(a, "loaded")
	log.Printf("[INFO] artifact loaded, vocabulary %d", a.Vectorizer.Size())
	return nil
}

func (m *Manager) train(ctx context.Context) error {
	corpus := SeedCorpus()
	if m.Samples != nil {
		// partial samples are used even if some sources failed
		spam, ham, err := m.Samples.Samples(ctx)
		if err != nil {
			log.Printf("[WARN] can't get all extra samples, got %d spam and %d ham: %v", len(spam), len(ham), err)
		}
		corpus.Spam = append(corpus.Spam, spam...)
		corpus.Ham = append(corpus.Ham, ham...)
	}

	a, err := Fit(corpus)
	if err != nil {
		return fmt.Errorf("can't train model: %w", err)
	}
	m.publish(a, "trained")
	log.Printf("[INFO] model trained on %d spam and %d ham samples, vocabulary %d",
		len(corpus.Spam), len(corpus.Ham), a.Vectorizer.Size())

	if m.Store == nil {
		return errors.New("no artifact store")
	}
	if err := m.Store.Save(ctx, a); err != nil {
		return fmt.Errorf("can't save artifact: %w", err)
	}
	return nil
}

func (m *Manager) publish(a *Artifact, source string) {
	m.current.Store(&published{
		artifact: a,
		info: Info{
			State:      Ready,
			Vocabulary: a.Vectorizer.Size(),
			Priors:     a.Classifier.Priors,
			Version:    m.version.Add(1),
			Source:     source,
			UpdatedAt:  time.Now(),
		},
	})
}
