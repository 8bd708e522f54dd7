package storage

import (
	"context"
	"fmt"

	"github.com/umputun/spam-check/lib/model"
)

func (s *StorageTestSuite) TestArtifacts() {
	ctx := context.Background()
	a, err := model.Fit(model.SeedCorpus())
	s.Require().NoError(err)

	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewArtifacts(ctx, db)
			s.Require().NoError(err)

			_, err = store.Load(ctx)
			s.ErrorIs(err, model.ErrNoArtifact)

			s.Require().NoError(store.Save(ctx, a))
			s.Require().NoError(store.Save(ctx, a), "save replaces")

			var count int
			s.Require().NoError(db.Get(&count, "SELECT COUNT(*) FROM artifacts"))
			s.Equal(1, count)

			loaded, err := store.Load(ctx)
			s.Require().NoError(err)
			for _, text := range []string{"Free money, claim now", "see you tomorrow", ""} {
				s.Equal(a.Predict(text), loaded.Predict(text), text)
			}

			// artifacts are per group
			other, err := NewArtifacts(ctx, db.WithGID("gr2"))
			s.Require().NoError(err)
			_, err = other.Load(ctx)
			s.ErrorIs(err, model.ErrNoArtifact)

			_, err = db.Exec(db.Adopt("UPDATE artifacts SET data = ? WHERE gid = ?"), "{broken", db.GID())
			s.Require().NoError(err)
			_, err = store.Load(ctx)
			s.ErrorIs(err, model.ErrNoArtifact, "corrupted artifact")
		})
	}

	_, err = NewArtifacts(ctx, nil)
	s.Error(err)
}

func (s *StorageTestSuite) TestArtifacts_WithManager() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewArtifacts(ctx, db)
			s.Require().NoError(err)
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, "crypto airdrop bonus"))

			first := model.NewManager(model.Config{Store: store, Samples: samples})
			s.Require().NoError(first.Load(ctx))
			s.Equal("trained", first.Info().Source)

			second := model.NewManager(model.Config{Store: store, Samples: samples})
			s.Require().NoError(second.Load(ctx))
			s.Equal("loaded", second.Info().Source)
			s.Equal(first.Info().Vocabulary, second.Info().Vocabulary)

			res, err := second.Predict(ctx, "crypto airdrop")
			s.Require().NoError(err)
			s.True(res.Spam)
		})
	}
}
