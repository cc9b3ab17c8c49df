package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

func TestRunComparison(t *testing.T) {
	ctx := WithSuppressHeader(t.Context())
	cfg := testConfig(helloRepo, emptyRepo, spoonRepo)

	gloomy := []schema.CommitRecord{
		{ShortHash: "ddddddd", Message: "Revert broken change", Timestamp: "2024-01-01T00:00:00Z", Author: "Dan"},
		{ShortHash: "eeeeeee", Message: "Update docs", Timestamp: "2024-01-02T00:00:00Z", Author: "Eve"},
	}

	src := &contract.MockCommitSource{}
	src.On("Fetch", mock.Anything, spoonRepo, 10, 100).Return(gloomy, nil)
	src.On("Fetch", mock.Anything, emptyRepo, 10, 100).Return([]schema.CommitRecord{}, nil)
	src.On("Fetch", mock.Anything, helloRepo, 10, 100).Return(testCommits()[:1], nil)

	result, err := runComparison(ctx, cfg, src, keywordScorer{}, nil)
	require.NoError(t, err)

	require.Len(t, result.Summaries, 2)
	assert.Equal(t, helloRepo, result.Summaries[0].Repo, "highest average compound ranks first")
	assert.Equal(t, spoonRepo, result.Summaries[1].Repo)
	assert.Equal(t, []schema.RepoRef{emptyRepo}, result.Skipped)

	assert.InDelta(t, (0.6+-0.3)/2, result.AvgCompound, 1e-9)
	assert.InDelta(t, 50.0, result.AvgPositivePercent, 1e-9)
	assert.InDelta(t, 25.0, result.AvgNeutralPercent, 1e-9)
	assert.InDelta(t, 25.0, result.AvgNegativePercent, 1e-9)
	src.AssertExpectations(t)
}

func TestRunComparisonNoRepos(t *testing.T) {
	_, err := runComparison(t.Context(), testConfig(), &contract.MockCommitSource{}, keywordScorer{}, nil)
	assert.ErrorIs(t, err, errNoRepos)
}

func TestRunComparisonCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(WithSuppressHeader(t.Context()))
	cancel()

	src := &contract.MockCommitSource{}
	result, err := runComparison(ctx, testConfig(helloRepo, spoonRepo), src, keywordScorer{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Summaries)
	assert.Equal(t, []schema.RepoRef{helloRepo, spoonRepo}, result.Skipped)
	src.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
