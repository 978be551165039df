package booking

import "context"

type Repository interface {
	// Reserve inserts a confirmed booking and, when debitCredit is set,
	// decrements the member's credit balance in the same transaction.
	Reserve(ctx context.Context, userID, scheduleID int, debitCredit bool) (*Booking, error)
	// Cancel flips a confirmed booking to cancelled and, when refundCredit
	// is set, returns the consumed credit in the same transaction.
	Cancel(ctx context.Context, bookingID int, refundCredit bool) error

	GetByID(ctx context.Context, id int) (*Booking, error)
	ListByUser(ctx context.Context, userID, limit int) ([]BookingWithDetails, error)
	BookedScheduleIDs(ctx context.Context, userID int, scheduleIDs []int) (map[int]bool, error)
	CountConfirmedForSchedule(ctx context.Context, scheduleID int) (int, error)
	NextUpcoming(ctx context.Context, userID int) (*BookingWithDetails, error)
	CountCompleted(ctx context.Context, userID int) (int, error)
	ListRecent(ctx context.Context, limit int) ([]BookingWithDetails, error)
}
