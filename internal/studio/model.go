package studio

import "time"

type Class struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ScheduleEntry struct {
	ID             int       `db:"id" json:"id"`
	ClassID        int       `db:"class_id" json:"class_id"`
	StartTime      time.Time `db:"start_time" json:"start_time"`
	InstructorName string    `db:"instructor_name" json:"instructor_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ScheduleEntryWithClass is a schedule row joined with its class for the
// day view. Booked is filled in per requesting member.
type ScheduleEntryWithClass struct {
	ScheduleEntry
	ClassName        string `db:"class_name" json:"class_name"`
	ClassDescription string `db:"class_description" json:"class_description"`
	Capacity         int    `db:"capacity" json:"capacity"`
	Booked           bool   `db:"-" json:"booked"`
}

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

type CreateScheduleEntryRequest struct {
	ClassID        int    `json:"class_id" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	InstructorName string `json:"instructor_name" binding:"required"`
}

// DayBounds returns the inclusive window covering one calendar day in loc,
// [00:00:00.000, 23:59:59.999]. Both ends are compared inclusively, matching
// how the schedule view has always filtered. The end is derived from the next
// calendar midnight rather than an elapsed 24h, so DST transition days keep
// their wall-clock boundary.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return start, end
}
