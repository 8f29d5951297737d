package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vytor/banishment/internal/judge"
	"github.com/vytor/banishment/internal/metrics"
	"github.com/vytor/banishment/internal/models"
	"github.com/vytor/banishment/internal/testutil/mocks"
)

func codeQuestion() *models.Question {
	return &models.Question{
		ID:            7,
		Subject:       "JavaScript",
		Difficulty:    models.DifficultyMedium,
		Type:          models.QuestionCode,
		CorrectAnswer: reverseJS,
		TestCases:     []models.TestCase{{Input: "abc", ExpectedOutput: "cba"}},
	}
}

func TestValidate_ExactMatchTypes(t *testing.T) {
	v := New(Options{})
	ctx := context.Background()

	mcq := &models.Question{Type: models.QuestionMCQ, CorrectAnswer: "O(n)"}
	assert.Equal(t, models.Verdict{IsCorrect: true, Method: models.GradedExact}, v.Validate(ctx, "O(n)", mcq))
	assert.False(t, v.Validate(ctx, "o(n)", mcq).IsCorrect)

	integer := &models.Question{Type: models.QuestionInteger, CorrectAnswer: "42"}
	assert.True(t, v.Validate(ctx, "42", integer).IsCorrect)
	assert.False(t, v.Validate(ctx, "42.0", integer).IsCorrect)
}

func TestValidate_DescriptionIsUnsupported(t *testing.T) {
	v := New(Options{})
	got := v.Validate(context.Background(), "an essay", &models.Question{Type: models.QuestionDescription})

	assert.False(t, got.IsCorrect)
	assert.Equal(t, models.GradedUnsupported, got.Method)
}

func TestValidate_CodeUsesJudge(t *testing.T) {
	j := new(mocks.MockJudge)
	q := codeQuestion()
	j.On("Run", mock.Anything, "console.log(1)", "javascript", q.TestCases).
		Return(&judge.Result{PassedAll: true, FailedCase: -1, Feedback: "All test cases passed!"}, nil).Once()

	got := New(Options{Judge: j}).Validate(context.Background(), "console.log(1)", q)

	assert.True(t, got.IsCorrect)
	assert.Equal(t, models.GradedJudge, got.Method)
	assert.Equal(t, "All test cases passed!", got.Feedback)
	j.AssertExpectations(t)
}

func TestValidate_JudgeFailingSubmissionIsIncorrect(t *testing.T) {
	j := new(mocks.MockJudge)
	j.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&judge.Result{FailedCase: 0, Feedback: "Wrong Answer"}, nil)

	got := New(Options{Judge: j}).Validate(context.Background(), reverseJS, codeQuestion())

	assert.False(t, got.IsCorrect, "judge verdict wins over similarity")
	assert.Equal(t, models.GradedJudge, got.Method)
}

func TestValidate_JudgeErrorFallsBackToSimilarity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	j := new(mocks.MockJudge)
	j.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	v := New(Options{Judge: j, Breaker: NewBreaker(5, time.Minute), Metrics: m})
	got := v.Validate(context.Background(), reverseJS, codeQuestion())

	assert.True(t, got.IsCorrect)
	assert.Equal(t, models.GradedSimilarity, got.Method)
	assert.InDelta(t, 1.0, got.Similarity, 1e-9)
	assert.Equal(t, BreakerClosed, v.breaker.State())
}

func TestValidate_OpenBreakerSkipsJudge(t *testing.T) {
	j := new(mocks.MockJudge)
	j.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout")).Once()

	v := New(Options{Judge: j, Breaker: NewBreaker(1, time.Hour)})
	first := v.Validate(context.Background(), "", codeQuestion())
	second := v.Validate(context.Background(), "", codeQuestion())

	assert.Equal(t, models.GradedSimilarity, first.Method)
	assert.Equal(t, models.GradedSimilarity, second.Method)
	assert.False(t, second.IsCorrect, "empty submission scores zero")
	j.AssertNumberOfCalls(t, "Run", 1)
}

func TestValidate_NoJudgeOrNoTestCases(t *testing.T) {
	v := New(Options{})
	got := v.Validate(context.Background(), reverseJS, codeQuestion())
	assert.Equal(t, models.GradedSimilarity, got.Method)
	assert.True(t, got.IsCorrect)

	j := new(mocks.MockJudge)
	q := codeQuestion()
	q.TestCases = nil
	got = New(Options{Judge: j}).Validate(context.Background(), "x", q)
	assert.Equal(t, models.GradedSimilarity, got.Method)
	assert.False(t, got.IsCorrect)
	j.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
