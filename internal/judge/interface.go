package judge

import (
	"context"

	"github.com/vytor/banishment/internal/models"
)

// Result of running a submission against a question's test cases.
type Result struct {
	PassedAll bool
	// FailedCase is the index of the first failing case, or -1.
	FailedCase int
	Feedback   string
}

// Judge runs code against test cases. A returned error means the judge could
// not be reached or answered garbage; a failing submission is not an error.
type Judge interface {
	Run(ctx context.Context, sourceCode, language string, cases []models.TestCase) (*Result, error)
}

var _ Judge = (*Client)(nil)
