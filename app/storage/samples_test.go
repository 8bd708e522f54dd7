package storage

import (
	"context"
	"fmt"
)

func (s *StorageTestSuite) TestNewSamples() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(context.Background(), db)
			s.Require().NoError(err)
			s.NotNil(samples)

			_, err = NewSamples(context.Background(), db)
			s.NoError(err, "second init on existing table")
		})
	}

	_, err := NewSamples(context.Background(), nil)
	s.Error(err)
}

func (s *StorageTestSuite) TestSamples_AddReadDelete() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)

			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, "win a free cruise"))
			s.Require().NoError(samples.Add(ctx, SampleTypeSpam, "cheap pills online"))
			s.Require().NoError(samples.Add(ctx, SampleTypeHam, "see you at the gym"))

			spam, err := samples.Read(ctx, SampleTypeSpam)
			s.Require().NoError(err)
			s.Equal([]string{"win a free cruise", "cheap pills online"}, spam)

			ham, err := samples.Read(ctx, SampleTypeHam)
			s.Require().NoError(err)
			s.Equal([]string{"see you at the gym"}, ham)

			// same message with another type replaces the old one
			s.Require().NoError(samples.Add(ctx, SampleTypeHam, "cheap pills online"))
			stats, err := samples.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(&SamplesStats{TotalSpam: 1, TotalHam: 2}, stats)
			s.Equal("spam: 1, ham: 2", stats.String())

			s.Require().NoError(samples.Delete(ctx, SampleTypeSpam, "win a free cruise"))
			err = samples.Delete(ctx, SampleTypeSpam, "win a free cruise")
			s.Error(err)
			s.Contains(err.Error(), "sample not found")

			sp, hm, err := samples.Samples(ctx)
			s.Require().NoError(err)
			s.Empty(sp)
			s.NotNil(sp)
			s.ElementsMatch([]string{"see you at the gym", "cheap pills online"}, hm)
		})
	}
}

func (s *StorageTestSuite) TestSamples_Invalid() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			samples, err := NewSamples(ctx, db)
			s.Require().NoError(err)

			s.Error(samples.Add(ctx, "junk", "message"))
			s.Error(samples.Add(ctx, SampleTypeHam, ""))
			s.Error(samples.Delete(ctx, "junk", "message"))
			_, err = samples.Read(ctx, "junk")
			s.Error(err)
		})
	}
}

func (s *StorageTestSuite) TestSamples_GroupIsolation() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			gr1, err := NewSamples(ctx, db)
			s.Require().NoError(err)
			gr2, err := NewSamples(ctx, db.WithGID("gr2"))
			s.Require().NoError(err)

			s.Require().NoError(gr1.Add(ctx, SampleTypeSpam, "spam for group one"))
			s.Require().NoError(gr2.Add(ctx, SampleTypeSpam, "spam for group two"))

			res, err := gr2.Read(ctx, SampleTypeSpam)
			s.Require().NoError(err)
			s.Equal([]string{"spam for group two"}, res)
		})
	}
}

func (s *StorageTestSuite) TestSampleType() {
	s.NoError(SampleTypeHam.Validate())
	s.NoError(SampleTypeSpam.Validate())
	s.Error(SampleType("other").Validate())
	s.Equal("spam", SampleTypeSpam.String())
}
