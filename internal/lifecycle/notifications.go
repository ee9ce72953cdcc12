package lifecycle

import (
	"context"
	"fmt"

	"github.com/unilift/unilift-backend/internal/models"
)

// Notification is a one-shot message surfaced to a dashboard poller.
type Notification struct {
	RequestID uint   `json:"requestId"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// CollectNotifications builds one-shot messages for the given requests and
// flips the Notified flag for the non-terminal ones, so the next poll stays
// quiet. Completed-and-unflagged requests produce a "please rate" prompt
// but keep their flag until MarkNotified is called explicitly; the flag is
// never reset to false. Delivery is at-least-once client-pull: a missed
// read just surfaces the message on the next one.
func (m *Manager) CollectNotifications(ctx context.Context, requests []models.RideRequest) ([]Notification, error) {
	var notifications []Notification
	var flip []uint

	for _, r := range requests {
		if r.Notified {
			continue
		}
		switch Status(r.Status) {
		case StatusPending, StatusAssigned, StatusInProgress:
			notifications = append(notifications, Notification{
				RequestID: r.ID,
				Status:    r.Status,
				Message:   fmt.Sprintf("Your ride request is %s", r.Status),
			})
			flip = append(flip, r.ID)
		case StatusCompleted:
			notifications = append(notifications, Notification{
				RequestID: r.ID,
				Status:    r.Status,
				Message:   "Your ride is completed, please rate your driver",
			})
		}
	}

	if len(flip) > 0 {
		if err := m.db.WithContext(ctx).Model(&models.RideRequest{}).
			Where("id IN ? AND notified = ?", flip, false).
			Update("notified", true).Error; err != nil {
			return nil, err
		}
	}
	return notifications, nil
}

// MarkNotified sets the flag on a Completed request once the client has
// shown the rate prompt. The guarded update is a no-op for any other state.
func (m *Manager) MarkNotified(ctx context.Context, requestID uint) error {
	return m.db.WithContext(ctx).Model(&models.RideRequest{}).
		Where("id = ? AND status = ?", requestID, string(StatusCompleted)).
		Update("notified", true).Error
}
