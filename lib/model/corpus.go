package model

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io"
	"iter"
	"log"
	"math/rand/v2"
	"strings"
)

//go:embed data/spam-samples.txt data/ham-samples.txt
var seedFS embed.FS

// SampleSource provides extra training samples joined with the embedded seed corpus on training
type SampleSource interface {
	Samples(ctx context.Context) (spam, ham []string, err error)
}

// Corpus is a labeled training set
type Corpus struct {
	Spam []string
	Ham  []string
}

// seed is the embedded corpus, parsed once
var seed = mustLoadSeed()

// SeedCorpus returns a copy of the embedded seed corpus
func SeedCorpus() Corpus {
	return Corpus{Spam: append([]string(nil), seed.Spam...), Ham: append([]string(nil), seed.Ham...)}
}

func mustLoadSeed() Corpus {
	read := func(name string) []string {
		fh, err := seedFS.Open(name)
		if err != nil {
			panic(fmt.Sprintf("can't open embedded %s: %v", name, err))
		}
		defer fh.Close()
		res := []string{}
		for line := range ReadSamples(fh) {
			res = append(res, line)
		}
		return res
	}
	return Corpus{Spam: read("data/spam-samples.txt"), Ham: read("data/ham-samples.txt")}
}

// ReadSamples parses readers and returns an iterator of samples, one sample per non-empty line
func ReadSamples(readers ...io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, reader := range readers {
			scanner := bufio.NewScanner(reader)
			for scanner.Scan() {
				line := strings.Trim(scanner.Text(), " \n\r\t")
				if line == "" {
					continue
				}
				if !yield(line) {
					return
				}
			}
			if err := scanner.Err(); err != nil {
				log.Printf("[WARN] failed to read samples, error=%v", err)
			}
		}
	}
}

// Example returns a random sample from the embedded spam or ham list
func Example(wantSpam bool) string {
	samples := seed.Ham
	if wantSpam {
		samples = seed.Spam
	}
	if len(samples) == 0 {
		return ""
	}
	return samples[rand.IntN(len(samples))] //nolint:gosec // not a security-sensitive choice
}
