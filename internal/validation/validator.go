package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/banishment/internal/judge"
	"github.com/vytor/banishment/internal/logger"
	"github.com/vytor/banishment/internal/metrics"
	"github.com/vytor/banishment/internal/models"
)

// Fallback reasons, also used as metric labels.
const (
	FallbackDisabled         = "disabled"
	FallbackCircuitOpen      = "circuit_open"
	FallbackJudgeError       = "judge_error"
	FallbackMissingTestCases = "missing_test_cases"
)

type Options struct {
	// Judge runs code answers; nil disables remote execution.
	Judge   judge.Judge
	Breaker *Breaker
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// Validator grades a submitted answer against a question. It never fails: an
// unreachable judge degrades to similarity scoring.
type Validator struct {
	judge   judge.Judge
	breaker *Breaker
	timeout time.Duration
	metrics *metrics.Metrics
}

func New(opts Options) *Validator {
	breaker := opts.Breaker
	if breaker == nil {
		breaker = NewBreaker(3, 30*time.Second)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Validator{
		judge:   opts.Judge,
		breaker: breaker,
		timeout: timeout,
		metrics: opts.Metrics,
	}
}

func (v *Validator) Validate(ctx context.Context, answer string, q *models.Question) models.Verdict {
	switch q.Type {
	case models.QuestionMCQ, models.QuestionInteger:
		return models.Verdict{IsCorrect: answer == q.CorrectAnswer, Method: models.GradedExact}
	case models.QuestionCode:
		return v.validateCode(ctx, answer, q)
	default:
		return models.Verdict{
			Method:   models.GradedUnsupported,
			Feedback: fmt.Sprintf("Questions of type %q cannot be graded automatically.", q.Type),
		}
	}
}

func (v *Validator) validateCode(ctx context.Context, answer string, q *models.Question) models.Verdict {
	log := logger.FromContext(ctx).WithPrefix("validation")

	if len(q.TestCases) == 0 {
		log.Warn("question %d has no test cases, grading by similarity", q.ID)
		return v.fallback(answer, q, FallbackMissingTestCases)
	}
	if v.judge == nil {
		return v.fallback(answer, q, FallbackDisabled)
	}
	if !v.breaker.Allow() {
		log.Debug("judge circuit open, grading question %d by similarity", q.ID)
		return v.fallback(answer, q, FallbackCircuitOpen)
	}

	language := DetectLanguage(answer, q.Subject)
	runCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	res, err := v.judge.Run(runCtx, answer, language, q.TestCases)
	v.metrics.JudgeCall(time.Since(start), err)
	if err != nil {
		v.breaker.Failure()
		log.Warn("judge failed for question %d (%s): %v", q.ID, language, err)
		return v.fallback(answer, q, FallbackJudgeError)
	}
	v.breaker.Success()

	return models.Verdict{IsCorrect: res.PassedAll, Feedback: res.Feedback, Method: models.GradedJudge}
}

func (v *Validator) fallback(answer string, q *models.Question, reason string) models.Verdict {
	v.metrics.GradingFallback(reason)
	score := Similarity(answer, q.CorrectAnswer)
	return models.Verdict{
		IsCorrect:  score >= SimilarityThreshold,
		Feedback:   fmt.Sprintf("Code execution unavailable; graded by similarity to the reference solution (%.0f%%).", score*100),
		Method:     models.GradedSimilarity,
		Similarity: score,
	}
}
