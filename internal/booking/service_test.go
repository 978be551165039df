package booking

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"theroom/internal/email"
	"theroom/internal/logger"
	"theroom/internal/studio"
	"theroom/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

// Mock repositories
type MockBookingRepo struct{ mock.Mock }
type MockStudioRepo struct{ mock.Mock }
type MockUserRepo struct{ mock.Mock }

func (m *MockBookingRepo) Reserve(ctx context.Context, userID, scheduleID int, debitCredit bool) (*Booking, error) {
	args := m.Called(ctx, userID, scheduleID, debitCredit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID int, refundCredit bool) error {
	return m.Called(ctx, bookingID, refundCredit).Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByUser(ctx context.Context, userID, limit int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockBookingRepo) BookedScheduleIDs(ctx context.Context, userID int, scheduleIDs []int) (map[int]bool, error) {
	args := m.Called(ctx, userID, scheduleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]bool), args.Error(1)
}

func (m *MockBookingRepo) CountConfirmedForSchedule(ctx context.Context, scheduleID int) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) NextUpcoming(ctx context.Context, userID int) (*BookingWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingWithDetails), args.Error(1)
}

func (m *MockBookingRepo) CountCompleted(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepo) ListRecent(ctx context.Context, limit int) ([]BookingWithDetails, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

func (m *MockStudioRepo) CreateClass(ctx context.Context, name, description string, capacity int) (*studio.Class, error) {
	args := m.Called(ctx, name, description, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Class), args.Error(1)
}

func (m *MockStudioRepo) ListClasses(ctx context.Context) ([]studio.Class, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.Class), args.Error(1)
}

func (m *MockStudioRepo) GetClassByID(ctx context.Context, id int) (*studio.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.Class), args.Error(1)
}

func (m *MockStudioRepo) CreateEntry(ctx context.Context, classID int, startTime time.Time, instructorName string) (*studio.ScheduleEntry, error) {
	args := m.Called(ctx, classID, startTime, instructorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.ScheduleEntry), args.Error(1)
}

func (m *MockStudioRepo) GetEntryByID(ctx context.Context, id int) (*studio.ScheduleEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studio.ScheduleEntry), args.Error(1)
}

func (m *MockStudioRepo) ListEntriesForDay(ctx context.Context, from, to time.Time) ([]studio.ScheduleEntryWithClass, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.ScheduleEntryWithClass), args.Error(1)
}

func (m *MockStudioRepo) ListUpcomingEntries(ctx context.Context, limit int) ([]studio.ScheduleEntryWithClass, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]studio.ScheduleEntryWithClass), args.Error(1)
}

func (m *MockStudioRepo) DeleteEntry(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepo) Create(ctx context.Context, fullName, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, fullName, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepo) SetCredits(ctx context.Context, id, credits int) (*user.User, error) {
	args := m.Called(ctx, id, credits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) SetRole(ctx context.Context, id int, role string) (*user.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func newTestService(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) Service {
	emailService := email.New("studio@test.com", "Test", "localhost", "1025", "", "", "localhost:6379")
	return NewService(br, sr, ur, emailService)
}

func futureEntry(id, classID int) *studio.ScheduleEntry {
	return &studio.ScheduleEntry{
		ID:             id,
		ClassID:        classID,
		StartTime:      time.Now().Add(24 * time.Hour),
		InstructorName: "Maria",
	}
}

func TestService_BookClass(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockBookingRepo, *MockStudioRepo, *MockUserRepo)
		expectErr     error
		alreadyBooked bool
		creditsLeft   int
	}{
		{
			name: "pack member books and spends a credit",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
				sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Sculpt Pilates", Capacity: 12}, nil)
				br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(5, nil)
				ur.On("FindByID", mock.Anything, 1).Return(&user.User{
					ID:               1,
					Email:            "member@test.com",
					MembershipType:   user.MembershipTwoWeekly,
					CreditsRemaining: 1,
				}, nil)
				br.On("Reserve", mock.Anything, 1, 1, true).Return(&Booking{
					ID:         7,
					UserID:     1,
					ScheduleID: 1,
					Status:     StatusConfirmed,
				}, nil)
			},
			creditsLeft: 0,
		},
		{
			name: "unlimited member never spends credits",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
				sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Mat Pilates", Capacity: 16}, nil)
				br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(0, nil)
				ur.On("FindByID", mock.Anything, 1).Return(&user.User{
					ID:               1,
					Email:            "member@test.com",
					MembershipType:   user.MembershipUnlimited,
					CreditsRemaining: 0,
				}, nil)
				br.On("Reserve", mock.Anything, 1, 1, false).Return(&Booking{
					ID:         8,
					UserID:     1,
					ScheduleID: 1,
					Status:     StatusConfirmed,
				}, nil)
			},
			creditsLeft: 0,
		},
		{
			name: "no membership and no credits is refused",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
				sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Mat Pilates", Capacity: 16}, nil)
				br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(0, nil)
				ur.On("FindByID", mock.Anything, 1).Return(&user.User{
					ID:               1,
					MembershipType:   user.MembershipNone,
					CreditsRemaining: 0,
				}, nil)
			},
			expectErr: ErrNoCredits,
		},
		{
			name: "second attempt reports already booked",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
				sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Sculpt Pilates", Capacity: 12}, nil)
				br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(5, nil)
				ur.On("FindByID", mock.Anything, 1).Return(&user.User{
					ID:               1,
					MembershipType:   user.MembershipThreeWeekly,
					CreditsRemaining: 4,
				}, nil)
				br.On("Reserve", mock.Anything, 1, 1, true).Return(nil, ErrDuplicateBooking)
			},
			alreadyBooked: true,
			creditsLeft:   4,
		},
		{
			name: "schedule entry not found",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(nil, errors.New("not found"))
			},
			expectErr: ErrScheduleNotFound,
		},
		{
			name: "class already started",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(&studio.ScheduleEntry{
					ID:        1,
					ClassID:   2,
					StartTime: time.Now().Add(-time.Hour),
				}, nil)
			},
			expectErr: ErrClassInPast,
		},
		{
			name: "class full",
			setupMocks: func(br *MockBookingRepo, sr *MockStudioRepo, ur *MockUserRepo) {
				sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
				sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Red Light Pilates", Capacity: 10}, nil)
				br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(10, nil)
			},
			expectErr: ErrClassFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := new(MockBookingRepo)
			sr := new(MockStudioRepo)
			ur := new(MockUserRepo)

			tt.setupMocks(br, sr, ur)

			service := newTestService(br, sr, ur)

			result, err := service.BookClass(context.Background(), 1, 1)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, result)
			assert.Equal(t, tt.alreadyBooked, result.AlreadyBooked)
			assert.Equal(t, tt.creditsLeft, result.CreditsRemaining)
			if !tt.alreadyBooked {
				assert.NotNil(t, result.Booking)
			}
		})
	}
}

func TestService_BookClass_RefusedBeforeStore(t *testing.T) {
	br := new(MockBookingRepo)
	sr := new(MockStudioRepo)
	ur := new(MockUserRepo)

	sr.On("GetEntryByID", mock.Anything, 1).Return(futureEntry(1, 2), nil)
	sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Mat Pilates", Capacity: 16}, nil)
	br.On("CountConfirmedForSchedule", mock.Anything, 1).Return(0, nil)
	ur.On("FindByID", mock.Anything, 1).Return(&user.User{
		ID:               1,
		MembershipType:   user.MembershipNone,
		CreditsRemaining: 0,
	}, nil)

	service := newTestService(br, sr, ur)

	_, err := service.BookClass(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrNoCredits)
	br.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CancelBooking(t *testing.T) {
	t.Run("pack member gets the credit back", func(t *testing.T) {
		br := new(MockBookingRepo)
		sr := new(MockStudioRepo)
		ur := new(MockUserRepo)

		br.On("GetByID", mock.Anything, 1).Return(&Booking{
			ID:         1,
			UserID:     1,
			ScheduleID: 3,
			Status:     StatusConfirmed,
		}, nil)
		ur.On("FindByID", mock.Anything, 1).Return(&user.User{
			ID:               1,
			MembershipType:   user.MembershipTwoWeekly,
			CreditsRemaining: 0,
		}, nil)
		br.On("Cancel", mock.Anything, 1, true).Return(nil)
		sr.On("GetEntryByID", mock.Anything, 3).Return(futureEntry(3, 2), nil)
		sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Sculpt Pilates"}, nil)

		service := newTestService(br, sr, ur)

		err := service.CancelBooking(context.Background(), 1, 1)

		assert.NoError(t, err)
		br.AssertExpectations(t)
	})

	t.Run("unlimited member gets no refund", func(t *testing.T) {
		br := new(MockBookingRepo)
		sr := new(MockStudioRepo)
		ur := new(MockUserRepo)

		br.On("GetByID", mock.Anything, 1).Return(&Booking{
			ID:         1,
			UserID:     1,
			ScheduleID: 3,
			Status:     StatusConfirmed,
		}, nil)
		ur.On("FindByID", mock.Anything, 1).Return(&user.User{
			ID:             1,
			MembershipType: user.MembershipUnlimited,
		}, nil)
		br.On("Cancel", mock.Anything, 1, false).Return(nil)
		sr.On("GetEntryByID", mock.Anything, 3).Return(futureEntry(3, 2), nil)
		sr.On("GetClassByID", mock.Anything, 2).Return(&studio.Class{ID: 2, Name: "Mat Pilates"}, nil)

		service := newTestService(br, sr, ur)

		err := service.CancelBooking(context.Background(), 1, 1)

		assert.NoError(t, err)
		br.AssertExpectations(t)
	})

	t.Run("cannot cancel someone else's booking", func(t *testing.T) {
		br := new(MockBookingRepo)
		sr := new(MockStudioRepo)
		ur := new(MockUserRepo)

		br.On("GetByID", mock.Anything, 1).Return(&Booking{
			ID:     1,
			UserID: 99,
			Status: StatusConfirmed,
		}, nil)

		service := newTestService(br, sr, ur)

		err := service.CancelBooking(context.Background(), 1, 1)

		assert.ErrorIs(t, err, ErrNotOwner)
		br.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing booking", func(t *testing.T) {
		br := new(MockBookingRepo)
		sr := new(MockStudioRepo)
		ur := new(MockUserRepo)

		br.On("GetByID", mock.Anything, 42).Return(nil, errors.New("sql: no rows in result set"))

		service := newTestService(br, sr, ur)

		err := service.CancelBooking(context.Background(), 1, 42)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_Overview(t *testing.T) {
	br := new(MockBookingRepo)
	sr := new(MockStudioRepo)
	ur := new(MockUserRepo)

	next := &BookingWithDetails{
		Booking:   Booking{ID: 5, UserID: 1, ScheduleID: 9, Status: StatusConfirmed},
		ClassName: "Sculpt Pilates",
		StartTime: time.Now().Add(48 * time.Hour),
	}

	ur.On("FindByID", mock.Anything, 1).Return(&user.User{
		ID:               1,
		MembershipType:   user.MembershipThreeWeekly,
		CreditsRemaining: 6,
	}, nil)
	br.On("NextUpcoming", mock.Anything, 1).Return(next, nil)
	br.On("CountCompleted", mock.Anything, 1).Return(14, nil)

	service := newTestService(br, sr, ur)

	overview, err := service.Overview(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, next, overview.NextBooking)
	assert.Equal(t, 14, overview.ClassesCompleted)
	assert.Equal(t, 6, overview.CreditsRemaining)
}

func TestService_History(t *testing.T) {
	br := new(MockBookingRepo)
	sr := new(MockStudioRepo)
	ur := new(MockUserRepo)

	br.On("ListByUser", mock.Anything, 1, historyLimit).Return([]BookingWithDetails{
		{Booking: Booking{ID: 1, UserID: 1}, ClassName: "Mat Pilates"},
	}, nil)

	service := newTestService(br, sr, ur)

	history, err := service.History(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, history, 1)
	br.AssertExpectations(t)
}
