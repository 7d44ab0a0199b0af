package student

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/schoolhub/internal/app/models"
	database "github.com/schoolhub/schoolhub/internal/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ Repo = (*PostgresStudentRepo)(nil)

type Repo interface {
	// ListCourses returns the courses the student is enrolled in, with the
	// teacher's display name resolved.
	ListCourses(ctx context.Context, studentID uuid.UUID) ([]models.EnrolledCourse, error)
	// RecentAttendance returns the student's last limit attendance records,
	// newest first.
	RecentAttendance(ctx context.Context, studentID uuid.UUID, limit int) ([]models.AttendanceRecord, error)
}

type PostgresStudentRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresStudentRepo(db database.Querier, logger *slog.Logger) *PostgresStudentRepo {
	return &PostgresStudentRepo{
		logger: logger,
		db:     db,
	}
}

// ListCourses implements Repo.
func (r *PostgresStudentRepo) ListCourses(ctx context.Context, studentID uuid.UUID) ([]models.EnrolledCourse, error) {
	query, args, err := psql.
		Select("c.id", "c.name", "u.name AS teacher_name").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Join("users u ON u.id = c.teacher_id").
		Where(sq.Eq{"e.student_id": studentID}).
		OrderBy("c.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building student courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching student courses", slog.Any("error", err), slog.String("studentID", studentID.String()))
		return nil, fmt.Errorf("database error fetching student courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.EnrolledCourse, 0)
	for rows.Next() {
		var c models.EnrolledCourse
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherName); err != nil {
			return nil, fmt.Errorf("scanning student course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading student course rows: %w", err)
	}
	return courses, nil
}

// RecentAttendance implements Repo.
func (r *PostgresStudentRepo) RecentAttendance(ctx context.Context, studentID uuid.UUID, limit int) ([]models.AttendanceRecord, error) {
	query, args, err := psql.
		Select("a.date", "a.present").
		From("attendance a").
		Where(sq.Eq{"a.student_id": studentID}).
		OrderBy("a.date DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching attendance", slog.Any("error", err), slog.String("studentID", studentID.String()))
		return nil, fmt.Errorf("database error fetching attendance: %w", err)
	}
	defer rows.Close()

	records, err := collectAttendance(rows)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func collectAttendance(rows pgx.Rows) ([]models.AttendanceRecord, error) {
	records := make([]models.AttendanceRecord, 0)
	for rows.Next() {
		var date time.Time
		var present bool
		if err := rows.Scan(&date, &present); err != nil {
			return nil, fmt.Errorf("scanning attendance row: %w", err)
		}
		records = append(records, models.AttendanceRecord{
			Date:    date.Format("2006-01-02"),
			Present: present,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading attendance rows: %w", err)
	}
	return records, nil
}
