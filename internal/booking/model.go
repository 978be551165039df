package booking

import "time"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

type Booking struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	ScheduleID int       `db:"schedule_id" json:"schedule_id"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type BookingWithDetails struct {
	Booking
	StartTime      time.Time `db:"start_time" json:"start_time"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
	ClassName      string    `db:"class_name" json:"class_name"`
	UserName       string    `db:"user_name" json:"user_name,omitempty"`
	UserEmail      string    `db:"user_email" json:"user_email,omitempty"`
}

// BookResult is the outcome of a booking attempt. AlreadyBooked marks the
// informational duplicate case, which is not an error.
type BookResult struct {
	Booking          *Booking `json:"booking,omitempty"`
	AlreadyBooked    bool     `json:"already_booked"`
	CreditsRemaining int      `json:"credits_remaining"`
}

// Overview backs the member home screen: the next confirmed class and a
// completed-class count.
type Overview struct {
	NextBooking      *BookingWithDetails `json:"next_booking,omitempty"`
	ClassesCompleted int                 `json:"classes_completed"`
	CreditsRemaining int                 `json:"credits_remaining"`
}

type CancelBookingResponse struct {
	Message string `json:"message" example:"Booking cancelled successfully"`
}
