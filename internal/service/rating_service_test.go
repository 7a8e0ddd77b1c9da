package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/status"
)

func newRatingFixture() (*RatingService, *fakeRatings, *fakeMaterializer) {
	ratings := newFakeRatings()
	ingestor := &fakeMaterializer{}
	return NewRatingService(ratings, ingestor), ratings, ingestor
}

func TestAddRatingMaterializesMovie(t *testing.T) {
	svc, _, ingestor := newRatingFixture()

	rating, err := svc.AddRating(context.Background(), 1, models.AddRatingRequest{
		ExternalID: 550, Score: 4, Comment: "great",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rating.UserID)
	assert.Equal(t, 550+1000, rating.MovieID)
	assert.Equal(t, 4, rating.Score)
	assert.Equal(t, []int{550}, ingestor.calls)
}

func TestAddRatingRejectsOutOfRangeScore(t *testing.T) {
	svc, _, ingestor := newRatingFixture()

	for _, score := range []int{0, -1, 6} {
		_, err := svc.AddRating(context.Background(), 1, models.AddRatingRequest{ExternalID: 550, Score: score})
		require.Error(t, err, "score %d", score)
		assert.True(t, status.Is(err, status.Invalid))
	}
	assert.Empty(t, ingestor.calls, "invalid input must not reach the provider")
}

func TestAddRatingDuplicateIsAlreadyExists(t *testing.T) {
	svc, _, _ := newRatingFixture()

	req := models.AddRatingRequest{ExternalID: 550, Score: 5}
	_, err := svc.AddRating(context.Background(), 1, req)
	require.NoError(t, err)

	_, err = svc.AddRating(context.Background(), 1, req)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.AlreadyExists))
}

func TestUpdateRatingChangesScoreAndComment(t *testing.T) {
	svc, _, _ := newRatingFixture()

	created, err := svc.AddRating(context.Background(), 1, models.AddRatingRequest{ExternalID: 550, Score: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateRating(context.Background(), 1, created.ID, models.UpdateRatingRequest{
		Score: 5, Comment: "grew on me",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Score)
	assert.Equal(t, "grew on me", updated.Comment)
}

func TestUpdateRatingOwnedByAnotherUserIsNotFound(t *testing.T) {
	svc, _, _ := newRatingFixture()

	created, err := svc.AddRating(context.Background(), 1, models.AddRatingRequest{ExternalID: 550, Score: 3})
	require.NoError(t, err)

	_, err = svc.UpdateRating(context.Background(), 2, created.ID, models.UpdateRatingRequest{Score: 1})
	require.Error(t, err)
	assert.True(t, status.Is(err, status.NotFound))
}

func TestDeleteRating(t *testing.T) {
	svc, ratings, _ := newRatingFixture()

	created, err := svc.AddRating(context.Background(), 1, models.AddRatingRequest{ExternalID: 550, Score: 3})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRating(context.Background(), 1, created.ID))
	_, err = ratings.GetByID(created.ID)
	assert.Error(t, err)

	err = svc.DeleteRating(context.Background(), 1, created.ID)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.NotFound))
}

func TestDeleteRatingUnknownIDIsNotFound(t *testing.T) {
	svc, _, _ := newRatingFixture()

	err := svc.DeleteRating(context.Background(), 1, 999)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.NotFound))
}
