package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/banishment/internal/errors"
	"github.com/vytor/banishment/internal/services"
	"github.com/vytor/banishment/internal/testutil/mocks"
)

func TestSubjects_SortedFromStore(t *testing.T) {
	repo := new(mocks.MockQuestionRepository)
	repo.On("DistinctSubjects", mock.Anything).Return([]string{"Python", "Go", "JavaScript"}, nil)

	svc := services.NewGauntletService(services.GauntletDeps{Questions: repo})
	subjects, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "JavaScript", "Python"}, subjects)
	repo.AssertExpectations(t)
}

func TestSubjects_StoreError(t *testing.T) {
	repo := new(mocks.MockQuestionRepository)
	repo.On("DistinctSubjects", mock.Anything).Return(nil, stderrors.New("disk on fire"))

	svc := services.NewGauntletService(services.GauntletDeps{Questions: repo})
	_, err := svc.Subjects(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestSubjects_DefaultsAreNotAliased(t *testing.T) {
	repo := new(mocks.MockQuestionRepository)
	repo.On("DistinctSubjects", mock.Anything).Return([]string{}, nil)

	svc := services.NewGauntletService(services.GauntletDeps{Questions: repo})
	subjects, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	subjects[0] = "changed"

	again, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.DefaultSubjects, again)
}
