package admin

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/schoolhub/schoolhub/internal/app/models"
	database "github.com/schoolhub/schoolhub/internal/db"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ Repo = (*PostgresAdminRepo)(nil)

type Repo interface {
	// CountUsersByRole returns the number of identities per role. Roles with
	// no rows are simply absent from the map; zero-filling is the service's
	// concern.
	CountUsersByRole(ctx context.Context) (map[string]int, error)
	// RecentCourses returns the limit most recently created courses with
	// teacher name and enrollment count.
	RecentCourses(ctx context.Context, limit int) ([]models.CourseSummary, error)
}

type PostgresAdminRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresAdminRepo(db database.Querier, logger *slog.Logger) *PostgresAdminRepo {
	return &PostgresAdminRepo{
		logger: logger,
		db:     db,
	}
}

// CountUsersByRole implements Repo.
func (r *PostgresAdminRepo) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	tracer := otel.Tracer("schoolhub")
	ctx, span := tracer.Start(ctx, "PostgresAdminRepo.CountUsersByRole", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()

	query, args, err := psql.
		Select("role", "COUNT(*)").
		From("users").
		GroupBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user count query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		r.logger.ErrorContext(ctx, "Error counting users by role", slog.Any("error", err))
		return nil, fmt.Errorf("database error counting users: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("scanning user count row: %w", err)
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading user count rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Counts fetched")
	return counts, nil
}

// RecentCourses implements Repo.
func (r *PostgresAdminRepo) RecentCourses(ctx context.Context, limit int) ([]models.CourseSummary, error) {
	query, args, err := psql.
		Select("c.id", "c.name", "u.name AS teacher_name", "COUNT(e.id) AS student_count", "c.created_at").
		From("courses c").
		Join("users u ON u.id = c.teacher_id").
		LeftJoin("enrollments e ON e.course_id = c.id").
		GroupBy("c.id", "c.name", "u.name", "c.created_at").
		OrderBy("c.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building recent courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching recent courses", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching recent courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.CourseSummary, 0)
	for rows.Next() {
		var c models.CourseSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherName, &c.StudentCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recent course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recent course rows: %w", err)
	}
	return courses, nil
}
