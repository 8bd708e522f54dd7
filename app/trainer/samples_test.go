package trainer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spam-check/lib/model"
)

type sourceFunc func(ctx context.Context) (spam, ham []string, err error)

func (f sourceFunc) Samples(ctx context.Context) (spam, ham []string, err error) { return f(ctx) }

func TestFileSamples(t *testing.T) {
	dir := t.TempDir()
	spamFile := filepath.Join(dir, "spam.txt")
	require.NoError(t, os.WriteFile(spamFile, []byte("buy cheap watches\n\n  free crypto  \n"), 0o600))

	t.Run("spam only", func(t *testing.T) {
		fs := FileSamples{SpamFile: spamFile, HamFile: filepath.Join(dir, "missing.txt")}
		spam, ham, err := fs.Samples(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"buy cheap watches", "free crypto"}, spam)
		assert.Empty(t, ham)
		assert.Len(t, fs.Files(), 2)
	})

	t.Run("nothing configured", func(t *testing.T) {
		spam, ham, err := FileSamples{}.Samples(context.Background())
		require.NoError(t, err)
		assert.Empty(t, spam)
		assert.Empty(t, ham)
		assert.Empty(t, FileSamples{}.Files())
	})

	t.Run("used by manager", func(t *testing.T) {
		m := model.NewManager(model.Config{
			Store:   model.NewFileStore(filepath.Join(dir, "model.json")),
			Samples: FileSamples{SpamFile: spamFile},
		})
		res, err := m.Predict(context.Background(), "cheap watches")
		require.NoError(t, err)
		assert.True(t, res.Spam)
	})
}

func TestSources(t *testing.T) {
	good := sourceFunc(func(context.Context) (spam, ham []string, err error) {
		return []string{"s1"}, []string{"h1"}, nil
	})
	bad := sourceFunc(func(context.Context) (spam, ham []string, err error) {
		return nil, nil, errors.New("db is down")
	})

	spam, ham, err := Sources{good, nil, good}.Samples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s1"}, spam)
	assert.Equal(t, []string{"h1", "h1"}, ham)

	spam, ham, err = Sources{bad, good, bad}.Samples(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Equal(t, []string{"s1"}, spam)
	assert.Equal(t, []string{"h1"}, ham)
}
