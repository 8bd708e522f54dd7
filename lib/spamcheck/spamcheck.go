// Package spamcheck defines request and response types of spam checks shared by the library and its clients.
package spamcheck

import (
	"fmt"
	"time"
)

// Request is a request to check a message for spam.
type Request struct {
	Msg    string `json:"msg"`     // message to check
	UserID string `json:"user_id"` // user id, empty for guests
}

func (r *Request) String() string {
	user := r.UserID
	if user == "" {
		user = "guest"
	}
	return fmt.Sprintf("msg:%q, user:%s", r.Msg, user)
}

// Response is a result of spam check.
type Response struct {
	Spam          bool       `json:"spam"`          // true if spam
	Confidence    float64    `json:"confidence"`    // probability of the predicted class, 0.5-1.0
	Probabilities [2]float64 `json:"probabilities"` // ham and spam probabilities
}

func (r *Response) String() string {
	spamOrHam := "ham"
	if r.Spam {
		spamOrHam = "spam"
	}
	return fmt.Sprintf("%s, confidence: %.2f%%", spamOrHam, r.Confidence*100)
}

// Check is a completed check, request with its response
type Check struct {
	Request   Request   `json:"request"`
	Response  Response  `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Check) String() string {
	return fmt.Sprintf("{%s} -> {%s}", c.Request.String(), c.Response.String())
}
