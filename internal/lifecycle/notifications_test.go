package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/models"
)

func pendingRequests(t *testing.T, db *gorm.DB, studentID uint) []models.RideRequest {
	t.Helper()
	var requests []models.RideRequest
	require.NoError(t, db.Where("student_id = ?", studentID).Find(&requests).Error)
	return requests
}

func TestCollectNotificationsFlipsNonTerminal(t *testing.T) {
	db := setupTestDB(t)
	m := lifecycle.NewManager(db)
	student := seedStudent(t, db, 1)
	seedDriver(t, db, 1, true)

	request, err := m.CreateRequest(context.Background(), newCreateInput(student.ID))
	require.NoError(t, err)

	notifications, err := m.CollectNotifications(context.Background(), pendingRequests(t, db, student.ID))
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, request.ID, notifications[0].RequestID)
	assert.Contains(t, notifications[0].Message, "Pending")

	var reloaded models.RideRequest
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.True(t, reloaded.Notified)

	// Flagged requests stay quiet on the next poll.
	notifications, err = m.CollectNotifications(context.Background(), pendingRequests(t, db, student.ID))
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestCompletedPromptRepeatsUntilAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	m := lifecycle.NewManager(db)
	student := seedStudent(t, db, 1)
	seedDriver(t, db, 1, true)

	request, err := m.CreateRequest(context.Background(), newCreateInput(student.ID))
	require.NoError(t, err)
	for _, next := range []lifecycle.Status{
		lifecycle.StatusAssigned, lifecycle.StatusInProgress, lifecycle.StatusCompleted,
	} {
		_, err = m.Transition(context.Background(), request.ID, next)
		require.NoError(t, err)
	}

	for i := 0; i < 2; i++ {
		notifications, err := m.CollectNotifications(context.Background(), pendingRequests(t, db, student.ID))
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Contains(t, notifications[0].Message, "rate your driver")
	}

	require.NoError(t, m.MarkNotified(context.Background(), request.ID))

	notifications, err := m.CollectNotifications(context.Background(), pendingRequests(t, db, student.ID))
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestMarkNotifiedIgnoresActiveRequests(t *testing.T) {
	db := setupTestDB(t)
	m := lifecycle.NewManager(db)
	student := seedStudent(t, db, 1)
	seedDriver(t, db, 1, true)

	request, err := m.CreateRequest(context.Background(), newCreateInput(student.ID))
	require.NoError(t, err)

	require.NoError(t, m.MarkNotified(context.Background(), request.ID))

	var reloaded models.RideRequest
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.False(t, reloaded.Notified, "only completed requests can be acknowledged")
}

func TestCancelledRequestsNeverNotify(t *testing.T) {
	db := setupTestDB(t)
	m := lifecycle.NewManager(db)
	student := seedStudent(t, db, 1)
	seedDriver(t, db, 1, true)

	request, err := m.CreateRequest(context.Background(), newCreateInput(student.ID))
	require.NoError(t, err)
	_, err = m.Cancel(context.Background(), request.ID)
	require.NoError(t, err)

	notifications, err := m.CollectNotifications(context.Background(), pendingRequests(t, db, student.ID))
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
