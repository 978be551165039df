package studio

import (
	"context"
	"time"
)

type Repository interface {
	CreateClass(ctx context.Context, name, description string, capacity int) (*Class, error)
	ListClasses(ctx context.Context) ([]Class, error)
	GetClassByID(ctx context.Context, id int) (*Class, error)

	CreateEntry(ctx context.Context, classID int, startTime time.Time, instructorName string) (*ScheduleEntry, error)
	GetEntryByID(ctx context.Context, id int) (*ScheduleEntry, error)
	ListEntriesForDay(ctx context.Context, from, to time.Time) ([]ScheduleEntryWithClass, error)
	ListUpcomingEntries(ctx context.Context, limit int) ([]ScheduleEntryWithClass, error)
	DeleteEntry(ctx context.Context, id int) error
}
