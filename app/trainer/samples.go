// Package trainer provides extra training samples for the model and retrains it when sample files change.
package trainer

import (
	"context"
	"fmt"
	"os"

	"github.com/go-pkgz/fileutils"
	"github.com/hashicorp/go-multierror"

	"github.com/umputun/spam-check/lib/model"
)

// FileSamples reads extra samples from text files, one sample per line. Missing files are treated as empty.
type FileSamples struct {
	SpamFile string
	HamFile  string
}

// Samples reads both files, implements model.SampleSource
func (f FileSamples) Samples(_ context.Context) (spam, ham []string, err error) {
	if spam, err = readSamplesFile(f.SpamFile); err != nil {
		return nil, nil, err
	}
	if ham, err = readSamplesFile(f.HamFile); err != nil {
		return nil, nil, err
	}
	return spam, ham, nil
}

// Files returns the configured files
func (f FileSamples) Files() []string {
	res := []string{}
	for _, file := range []string{f.SpamFile, f.HamFile} {
		if file != "" {
			res = append(res, file)
		}
	}
	return res
}

// Sources combines several sample sources into one. Failed sources are skipped,
// the error lists all failures and is returned together with samples of the good sources.
type Sources []model.SampleSource

// Samples collects samples of all sources, implements model.SampleSource
func (s Sources) Samples(ctx context.Context) (spam, ham []string, err error) {
	errs := new(multierror.Error)
	for _, src := range s {
		if src == nil {
			continue
		}
		sp, hm, e := src.Samples(ctx)
		if e != nil {
			errs = multierror.Append(errs, e)
			continue
		}
		spam = append(spam, sp...)
		ham = append(ham, hm...)
	}
	return spam, ham, errs.ErrorOrNil()
}

func readSamplesFile(path string) ([]string, error) {
	res := []string{}
	if path == "" || !fileutils.IsFile(path) {
		return res, nil
	}
	fh, err := os.Open(path) //nolint:gosec // path is controlled by the app
	if err != nil {
		return nil, fmt.Errorf("failed to open samples file %s: %w", path, err)
	}
	defer fh.Close()
	for line := range model.ReadSamples(fh) {
		res = append(res, line)
	}
	return res, nil
}
