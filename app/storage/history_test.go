package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/umputun/spam-check/lib/spamcheck"
)

func (s *StorageTestSuite) TestHistory() {
	ctx := context.Background()
	ts := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	check := func(user, msg string, spam bool, conf float64, offset time.Duration) spamcheck.Check {
		probs := [2]float64{conf, 1 - conf}
		if spam {
			probs = [2]float64{1 - conf, conf}
		}
		return spamcheck.Check{
			Request:   spamcheck.Request{Msg: msg, UserID: user},
			Response:  spamcheck.Response{Spam: spam, Confidence: conf, Probabilities: probs},
			Timestamp: ts.Add(offset),
		}
	}

	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			h, err := NewHistory(ctx, db)
			s.Require().NoError(err)

			s.Require().NoError(h.Add(ctx, check("user1", "free money", true, 0.9, 0)))
			s.Require().NoError(h.Add(ctx, check("user1", "lunch today?", false, 0.75, time.Minute)))
			s.Require().NoError(h.Add(ctx, check("user2", "win a prize", true, 0.8, 2*time.Minute)))
			s.Require().NoError(h.Add(ctx, check("", "hello there", false, 0.6, 3*time.Minute)))

			res, err := h.Read(ctx, "user1", 10)
			s.Require().NoError(err)
			s.Require().Len(res, 2)
			s.Equal("lunch today?", res[0].Request.Msg, "newest first")
			s.Equal("free money", res[1].Request.Msg)
			s.True(res[1].Response.Spam)
			s.InDelta(0.9, res[1].Response.Confidence, 1e-12)
			s.InDelta(0.9, res[1].Response.Probabilities[1], 1e-12)
			s.True(ts.Equal(res[1].Timestamp), "timestamp %v", res[1].Timestamp)

			res, err = h.Read(ctx, "user1", 1)
			s.Require().NoError(err)
			s.Len(res, 1)

			res, err = h.Read(ctx, "", 10)
			s.Require().NoError(err)
			s.Require().Len(res, 1)
			s.Equal("hello there", res[0].Request.Msg)

			res, err = h.Read(ctx, "unknown", 10)
			s.Require().NoError(err)
			s.Empty(res)

			res, err = h.Read(ctx, "user1", 0)
			s.Require().NoError(err)
			s.Empty(res)

			stats, err := h.Stats(ctx)
			s.Require().NoError(err)
			s.Equal(&HistoryStats{Total: 4, Spam: 2, Ham: 2, Guest: 1, Authenticated: 3}, stats)
		})
	}
}

func (s *StorageTestSuite) TestHistory_DefaultTimestamp() {
	ctx := context.Background()
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			h, err := NewHistory(ctx, db)
			s.Require().NoError(err)
			s.Require().NoError(h.Add(ctx, spamcheck.Check{Request: spamcheck.Request{Msg: "hi", UserID: "u"}}))
			res, err := h.Read(ctx, "u", 1)
			s.Require().NoError(err)
			s.Require().Len(res, 1)
			s.WithinDuration(time.Now(), res[0].Timestamp, time.Minute)
		})
	}

	_, err := NewHistory(ctx, nil)
	s.Error(err)
}
