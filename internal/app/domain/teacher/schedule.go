package teacher

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry is one weekly recurring slot for a course.
// DayOfWeek follows the storage convention: 0 = Sunday .. 6 = Saturday.
type ScheduleEntry struct {
	ID         uuid.UUID
	CourseName string
	DayOfWeek  int
	StartTime  string
}

// Occurrence is one concrete calendar-dated instance of a recurring entry.
type Occurrence struct {
	ID         uuid.UUID `json:"id"`
	CourseName string    `json:"courseName"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"`
}

// ProjectOccurrences maps each weekly entry to its next calendar date on or
// after reference and drops dates beyond reference + horizonDays.
//
// An entry whose weekday equals reference's weekday projects to reference
// itself: today's class counts as upcoming rather than being pushed a week
// ahead. The caller-supplied entry order is preserved; occurrences are not
// re-sorted by projected date.
func ProjectOccurrences(entries []ScheduleEntry, reference time.Time, horizonDays int) []Occurrence {
	horizon := reference.AddDate(0, 0, horizonDays)

	occurrences := make([]Occurrence, 0, len(entries))
	for _, entry := range entries {
		offset := (entry.DayOfWeek + 7 - int(reference.Weekday())) % 7
		date := reference.AddDate(0, 0, offset)
		if date.After(horizon) {
			continue
		}
		occurrences = append(occurrences, Occurrence{
			ID:         entry.ID,
			CourseName: entry.CourseName,
			Date:       date.Format("2006-01-02"),
			Time:       entry.StartTime,
		})
	}
	return occurrences
}
