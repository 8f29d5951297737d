package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/banishment/internal/judge"
	"github.com/vytor/banishment/internal/models"
)

// MockJudge is a mock implementation of judge.Judge
type MockJudge struct {
	mock.Mock
}

func (m *MockJudge) Run(ctx context.Context, sourceCode, language string, cases []models.TestCase) (*judge.Result, error) {
	args := m.Called(ctx, sourceCode, language, cases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*judge.Result), args.Error(1)
}
