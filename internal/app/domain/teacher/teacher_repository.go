package teacher

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/schoolhub/schoolhub/internal/app/models"
	database "github.com/schoolhub/schoolhub/internal/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ Repo = (*PostgresTeacherRepo)(nil)

type Repo interface {
	// ListCourses returns the courses taught by the teacher with their
	// enrollment counts.
	ListCourses(ctx context.Context, teacherID uuid.UUID) ([]models.TaughtCourse, error)
	// ListWeekdaySchedules returns the teacher's weekday schedule entries
	// ordered by day of week, then start time.
	ListWeekdaySchedules(ctx context.Context, teacherID uuid.UUID) ([]ScheduleEntry, error)
}

type PostgresTeacherRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresTeacherRepo(db database.Querier, logger *slog.Logger) *PostgresTeacherRepo {
	return &PostgresTeacherRepo{
		logger: logger,
		db:     db,
	}
}

// ListCourses implements Repo.
func (r *PostgresTeacherRepo) ListCourses(ctx context.Context, teacherID uuid.UUID) ([]models.TaughtCourse, error) {
	query, args, err := psql.
		Select("c.id", "c.name", "COUNT(e.id) AS student_count").
		From("courses c").
		LeftJoin("enrollments e ON e.course_id = c.id").
		Where(sq.Eq{"c.teacher_id": teacherID}).
		GroupBy("c.id", "c.name").
		OrderBy("c.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building teacher courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching teacher courses", slog.Any("error", err), slog.String("teacherID", teacherID.String()))
		return nil, fmt.Errorf("database error fetching teacher courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.TaughtCourse, 0)
	for rows.Next() {
		var c models.TaughtCourse
		if err := rows.Scan(&c.ID, &c.Name, &c.StudentCount); err != nil {
			return nil, fmt.Errorf("scanning teacher course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading teacher course rows: %w", err)
	}
	return courses, nil
}

// ListWeekdaySchedules implements Repo. Classes only run Monday through
// Friday, so weekend entries are filtered at the query.
func (r *PostgresTeacherRepo) ListWeekdaySchedules(ctx context.Context, teacherID uuid.UUID) ([]ScheduleEntry, error) {
	query, args, err := psql.
		Select("s.id", "c.name", "s.day_of_week", "s.start_time").
		From("schedules s").
		Join("courses c ON c.id = s.course_id").
		Where(sq.Eq{"c.teacher_id": teacherID}).
		Where(sq.And{
			sq.GtOrEq{"s.day_of_week": 1},
			sq.LtOrEq{"s.day_of_week": 5},
		}).
		OrderBy("s.day_of_week", "s.start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building schedules query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching schedules", slog.Any("error", err), slog.String("teacherID", teacherID.String()))
		return nil, fmt.Errorf("database error fetching schedules: %w", err)
	}
	defer rows.Close()

	entries := make([]ScheduleEntry, 0)
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.ID, &e.CourseName, &e.DayOfWeek, &e.StartTime); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading schedule rows: %w", err)
	}
	return entries, nil
}
