package services

import (
	"testing"
	"time"

	"route-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string        { return &s }
func f64Ptr(f float64) *float64      { return &f }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func TestVisitedAtSetOnFirstTransition(t *testing.T) {
	now := time.Date(2026, 1, 19, 14, 0, 0, 0, time.UTC)
	visit := &models.Visit{Status: models.StatusNotVisited}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		Status: strPtr(models.StatusSaleMade),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSaleMade, visit.Status)
	require.NotNil(t, visit.VisitedAt)
	assert.Equal(t, now, *visit.VisitedAt)
}

func TestVisitedAtNotOverwrittenOnLaterTransition(t *testing.T) {
	firstVisit := time.Date(2026, 1, 19, 14, 0, 0, 0, time.UTC)
	later := firstVisit.Add(48 * time.Hour)
	visit := &models.Visit{
		Status:    models.StatusSaleMade,
		VisitedAt: timePtr(firstVisit),
	}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		Status: strPtr(models.StatusFollowUpRequired),
	}, later)
	require.NoError(t, err)

	assert.Equal(t, models.StatusFollowUpRequired, visit.Status)
	require.NotNil(t, visit.VisitedAt)
	assert.Equal(t, firstVisit, *visit.VisitedAt)
}

func TestVisitedAtNotSetWhileNotVisited(t *testing.T) {
	visit := &models.Visit{Status: models.StatusNotVisited}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		Notes: strPtr("tried calling, no answer yet"),
	}, time.Now())
	require.NoError(t, err)

	assert.Nil(t, visit.VisitedAt)
	assert.Equal(t, "tried calling, no answer yet", visit.Notes)
}

func TestVisitedAtExplicitValueWins(t *testing.T) {
	auto := time.Date(2026, 1, 19, 14, 0, 0, 0, time.UTC)
	explicit := time.Date(2026, 1, 18, 9, 30, 0, 0, time.UTC)
	visit := &models.Visit{Status: models.StatusSaleMade, VisitedAt: timePtr(auto)}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		VisitedAt: timePtr(explicit),
	}, time.Now())
	require.NoError(t, err)

	require.NotNil(t, visit.VisitedAt)
	assert.Equal(t, explicit, *visit.VisitedAt)
}

func TestPartialUpdateLeavesOtherFieldsAlone(t *testing.T) {
	visit := &models.Visit{
		Status:      models.StatusContactMade,
		Notes:       "spoke with manager",
		SalesAmount: 120.50,
	}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		FollowUpRequired: boolPtr(true),
		FollowUpNotes:    strPtr("bring catalog next time"),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, models.StatusContactMade, visit.Status)
	assert.Equal(t, "spoke with manager", visit.Notes)
	assert.Equal(t, 120.50, visit.SalesAmount)
	assert.True(t, visit.FollowUpRequired)
	assert.Equal(t, "bring catalog next time", visit.FollowUpNotes)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	visit := &models.Visit{Status: models.StatusNotVisited}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		Status: strPtr("teleported"),
	}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateRejectsNegativeSalesAmount(t *testing.T) {
	visit := &models.Visit{Status: models.StatusSaleMade}

	err := applyVisitUpdate(visit, &models.UpdateVisitRequest{
		SalesAmount: f64Ptr(-5),
	}, time.Now())
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestStampVisitedAtOnCreate(t *testing.T) {
	now := time.Now()

	visited := &models.Visit{Status: models.StatusContactMade}
	stampVisitedAt(visited, nil, now)
	require.NotNil(t, visited.VisitedAt)

	untouched := &models.Visit{Status: models.StatusNotVisited}
	stampVisitedAt(untouched, nil, now)
	assert.Nil(t, untouched.VisitedAt)
}
