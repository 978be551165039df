package booking

import (
	"context"
	"errors"
	"time"

	"theroom/internal/email"
	"theroom/internal/metrics"
	"theroom/internal/studio"
	"theroom/internal/user"
)

const (
	historyLimit     = 20
	recentAdminLimit = 50
)

var (
	ErrScheduleNotFound = errors.New("schedule entry not found")
	ErrClassInPast      = errors.New("cannot book a class that has already started")
	ErrClassFull        = errors.New("class is full")
	ErrNoCredits        = errors.New("no credits remaining")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("can only cancel own bookings")
)

type Service interface {
	BookClass(ctx context.Context, userID, scheduleID int) (*BookResult, error)
	CancelBooking(ctx context.Context, userID, bookingID int) error
	History(ctx context.Context, userID int) ([]BookingWithDetails, error)
	Overview(ctx context.Context, userID int) (*Overview, error)
	RecentBookings(ctx context.Context) ([]BookingWithDetails, error)
}

type service struct {
	bookingRepo  Repository
	studioRepo   studio.Repository
	userRepo     user.Repository
	emailService *email.Service
}

func NewService(bookingRepo Repository, studioRepo studio.Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		bookingRepo:  bookingRepo,
		studioRepo:   studioRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// BookClass reserves a spot in a scheduled class and consumes one credit for
// non-unlimited memberships. The reservation and the debit commit in a single
// transaction; a duplicate attempt is reported as an outcome, not an error.
func (s *service) BookClass(ctx context.Context, userID, scheduleID int) (*BookResult, error) {
	entry, err := s.studioRepo.GetEntryByID(ctx, scheduleID)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	if entry.StartTime.Before(time.Now()) {
		return nil, ErrClassInPast
	}

	class, err := s.studioRepo.GetClassByID(ctx, entry.ClassID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.bookingRepo.CountConfirmedForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if confirmed >= class.Capacity {
		return nil, ErrClassFull
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Refuse before touching the store; the transaction re-checks under lock.
	if !u.CanBook() {
		return nil, ErrNoCredits
	}

	booking, err := s.bookingRepo.Reserve(ctx, userID, scheduleID, u.ConsumesCredit())
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateBooking):
			return &BookResult{AlreadyBooked: true, CreditsRemaining: u.CreditsRemaining}, nil
		case errors.Is(err, ErrInsufficientCredits):
			return nil, ErrNoCredits
		default:
			return nil, err
		}
	}

	creditsLeft := u.CreditsRemaining
	if u.ConsumesCredit() {
		creditsLeft--
		metrics.RecordCreditDebit()
	}
	metrics.RecordBooking(string(StatusConfirmed), string(u.MembershipType))

	s.emailService.SendBookingConfirmation(ctx, u.Email, u.FullName, class.Name, entry.InstructorName, entry.StartTime)

	return &BookResult{
		Booking:          booking,
		CreditsRemaining: creditsLeft,
	}, nil
}

// CancelBooking flips a member's confirmed booking to cancelled and refunds
// the credit it consumed. Unlimited memberships get no refund because nothing
// was debited.
func (s *service) CancelBooking(ctx context.Context, userID, bookingID int) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	if booking.UserID != userID {
		return ErrNotOwner
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.bookingRepo.Cancel(ctx, bookingID, u.ConsumesCredit())
	if err != nil {
		if errors.Is(err, ErrBookingNotFoundOrAlreadyCancelled) {
			return ErrBookingNotFound
		}
		return err
	}

	metrics.RecordBookingCancellation()
	if u.ConsumesCredit() {
		metrics.RecordCreditRefund()
	}

	if entry, err := s.studioRepo.GetEntryByID(ctx, booking.ScheduleID); err == nil {
		if class, err := s.studioRepo.GetClassByID(ctx, entry.ClassID); err == nil {
			s.emailService.SendCancellation(ctx, u.Email, u.FullName, class.Name, entry.StartTime)
		}
	}

	return nil
}

func (s *service) History(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	return s.bookingRepo.ListByUser(ctx, userID, historyLimit)
}

// Overview backs the member home screen.
func (s *service) Overview(ctx context.Context, userID int) (*Overview, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, err := s.bookingRepo.NextUpcoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.bookingRepo.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		NextBooking:      next,
		ClassesCompleted: completed,
		CreditsRemaining: u.CreditsRemaining,
	}, nil
}

func (s *service) RecentBookings(ctx context.Context) ([]BookingWithDetails, error) {
	return s.bookingRepo.ListRecent(ctx, recentAdminLimit)
}
