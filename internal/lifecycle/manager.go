package lifecycle

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unilift/unilift-backend/internal/models"
)

// Manager owns every status write for ride requests. All mutations run in
// a single transaction with a row lock on the request, so concurrent
// accepts, cancels and rating submissions cannot interleave.
type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// CreateInput carries the student-supplied fields for a new ride request.
type CreateInput struct {
	StudentID      uint
	PickupLocation string
	Destination    string
	PickupTime     time.Time
	Notes          string
}

// UpdateInput carries the editable pickup fields. Edits never change status.
type UpdateInput struct {
	PickupLocation string
	Destination    string
	PickupTime     time.Time
	Notes          string
}

// CreateRequest inserts a Pending request and assigns an available driver
// in one transaction. If no driver is Available the whole operation fails
// with ErrNoDriverAvailable and nothing is persisted.
func (m *Manager) CreateRequest(ctx context.Context, in CreateInput) (*models.RideRequest, error) {
	if in.StudentID == 0 || in.PickupLocation == "" || in.Destination == "" || in.PickupTime.IsZero() {
		return nil, ErrMissingFields
	}

	tx := m.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	driver, err := lockAvailableDriver(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	request := models.RideRequest{
		StudentID:      in.StudentID,
		DriverID:       &driver.ID,
		PickupLocation: in.PickupLocation,
		Destination:    in.Destination,
		PickupTime:     in.PickupTime,
		Notes:          in.Notes,
		Status:         string(StatusPending),
		Notified:       false,
	}
	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	driver.AvailabilityStatus = models.DriverNotAvailable
	if err := tx.Save(driver).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// UpdateFields edits pickup details while the request is still Pending or
// Assigned. The row stays locked for the duration of the edit.
func (m *Manager) UpdateFields(ctx context.Context, requestID uint, in UpdateInput) (*models.RideRequest, error) {
	if in.PickupLocation == "" || in.Destination == "" || in.PickupTime.IsZero() {
		return nil, ErrMissingFields
	}

	tx := m.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	request, err := lockRequest(tx, requestID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !Editable(Status(request.Status)) {
		tx.Rollback()
		return nil, ErrNotEditable
	}

	request.PickupLocation = in.PickupLocation
	request.Destination = in.Destination
	request.PickupTime = in.PickupTime
	request.Notes = in.Notes
	if err := tx.Save(request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// Transition moves a request along the AllowedTransitions graph. Cancels
// are routed through Cancel so the attached driver is always released.
func (m *Manager) Transition(ctx context.Context, requestID uint, to Status) (*models.RideRequest, error) {
	if !ValidStatus(to) {
		return nil, ErrInvalidStatus
	}
	if to == StatusCancelled {
		return m.Cancel(ctx, requestID)
	}

	tx := m.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	request, err := lockRequest(tx, requestID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if !CanTransition(Status(request.Status), to) {
		tx.Rollback()
		return nil, ErrInvalidTransition
	}

	request.Status = string(to)
	if err := tx.Save(request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Completion does not release the driver; they go back to Available
	// by toggling their own availability. Cancellation is the only
	// transition that releases automatically.

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// Cancel sets a non-terminal request to Cancelled and releases the
// attached driver back to Available in the same transaction.
func (m *Manager) Cancel(ctx context.Context, requestID uint) (*models.RideRequest, error) {
	tx := m.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	request, err := lockRequest(tx, requestID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if Terminal(Status(request.Status)) {
		tx.Rollback()
		return nil, ErrNotCancellable
	}

	request.Status = string(StatusCancelled)
	if err := tx.Save(request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if request.DriverID != nil {
		if err := tx.Model(&models.Driver{}).
			Where("id = ?", *request.DriverID).
			Update("availability_status", models.DriverAvailable).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// SubmitRating records a 1-5 rating exactly once on a Completed request.
func (m *Manager) SubmitRating(ctx context.Context, requestID uint, rating int) (*models.RideRequest, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	tx := m.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	request, err := lockRequest(tx, requestID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if Status(request.Status) != StatusCompleted {
		tx.Rollback()
		return nil, ErrNotCompleted
	}
	// A zero rating is treated as unset.
	if request.Rating != nil && *request.Rating != 0 {
		tx.Rollback()
		return nil, ErrAlreadyRated
	}

	request.Rating = &rating
	if err := tx.Save(request).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return request, nil
}

// Get loads a request with its student and driver.
func (m *Manager) Get(ctx context.Context, requestID uint) (*models.RideRequest, error) {
	var request models.RideRequest
	err := m.db.WithContext(ctx).
		Preload("Student").Preload("Driver").
		First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// lockRequest loads a request row FOR UPDATE inside tx.
func lockRequest(tx *gorm.DB, requestID uint) (*models.RideRequest, error) {
	var request models.RideRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}
