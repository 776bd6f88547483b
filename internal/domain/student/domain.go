package student

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"github.com/contoso/university/internal/utils/metrics"
	"github.com/contoso/university/internal/utils/pagination"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	statsCacheName = "enrollment_stats"
	maxNameLength  = 50
)

// StudentDomain defines student domain service interface.
type StudentDomain interface {
	// Queries
	List(ctx context.Context, filter model.StudentFilter) (*pagination.Page[*model.Student], error)
	Get(ctx context.Context, id int) (*model.Student, error)
	EnrollmentStats(ctx context.Context) ([]model.EnrollmentDateGroup, error)

	// Commands
	Create(ctx context.Context, input *model.StudentInput) (*model.Student, error)
	Update(ctx context.Context, id int, input *model.StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id int) error
}

// Config holds domain configuration.
type Config struct {
	PageSize int
	StatsTTL time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		PageSize: pagination.DefaultPageSize,
		StatsTTL: 5 * time.Minute,
	}
}

// studentDomain implements StudentDomain.
type studentDomain struct {
	studentDB outbound.StudentDatabasePort
	cache     outbound.StatsCachePort
	config    *Config
	sanitizer *bluemonday.Policy
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentDomain creates a new student domain service. cache and m may be nil.
func NewStudentDomain(
	studentDB outbound.StudentDatabasePort,
	cache outbound.StatsCachePort,
	config *Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) StudentDomain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &studentDomain{
		studentDB: studentDB,
		cache:     cache,
		config:    config,
		sanitizer: bluemonday.StrictPolicy(),
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (d *studentDomain) List(ctx context.Context, filter model.StudentFilter) (*pagination.Page[*model.Student], error) {
	filter.Normalize()

	p := pagination.New(filter.PageNumber)
	if d.config.PageSize > 0 {
		p.PageSize = d.config.PageSize
	}

	students, total, err := d.studentDB.FindByQuery(ctx, model.StudentQuery{
		Search: filter.SearchString,
		Sort:   filter.Sort(),
		Offset: p.Offset(),
		Limit:  p.Limit(),
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return pagination.NewPage(students, p, total), nil
}

func (d *studentDomain) Get(ctx context.Context, id int) (*model.Student, error) {
	if id <= 0 {
		return nil, ErrStudentNotFound
	}
	s, err := d.studentDB.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrStudentNotFound
	}
	return s, nil
}

func (d *studentDomain) Create(ctx context.Context, input *model.StudentInput) (*model.Student, error) {
	var s model.Student
	if err := d.apply(input, &s); err != nil {
		return nil, err
	}
	if err := d.studentDB.Create(ctx, &s); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	d.invalidateStats(ctx)
	d.logger.Info("student created", zap.Int("student_id", s.ID))
	return &s, nil
}

func (d *studentDomain) Update(ctx context.Context, id int, input *model.StudentInput) (*model.Student, error) {
	s, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.apply(input, s); err != nil {
		return nil, err
	}
	if err := d.studentDB.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	d.invalidateStats(ctx)
	d.logger.Info("student updated", zap.Int("student_id", s.ID))
	return s, nil
}

func (d *studentDomain) Delete(ctx context.Context, id int) error {
	if _, err := d.Get(ctx, id); err != nil {
		return err
	}
	if err := d.studentDB.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	d.invalidateStats(ctx)
	d.logger.Info("student deleted", zap.Int("student_id", id))
	return nil
}

// EnrollmentStats returns the student count per enrollment date, served from
// cache when possible. Cache failures fall through to the database.
func (d *studentDomain) EnrollmentStats(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	if d.cache != nil {
		groups, err := d.cache.Get(ctx)
		switch {
		case err == nil:
			d.recordCache(true)
			return groups, nil
		case !errors.Is(err, outbound.ErrCacheMiss):
			d.logger.Warn("stats cache read failed", zap.Error(err))
		}
		d.recordCache(false)
	}

	groups, err := d.studentDB.CountByEnrollmentDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("count enrollment dates: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, groups, d.config.StatsTTL); err != nil {
			d.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return groups, nil
}

func (d *studentDomain) apply(input *model.StudentInput, s *model.Student) error {
	if input == nil {
		return ErrInvalidStudent
	}

	clean := model.StudentInput{
		LastName:       d.sanitize(input.LastName),
		FirstMidName:   d.sanitize(input.FirstMidName),
		EnrollmentDate: input.EnrollmentDate,
	}
	if clean.LastName == "" || clean.FirstMidName == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStudent)
	}
	if utf8.RuneCountInString(clean.LastName) > maxNameLength || utf8.RuneCountInString(clean.FirstMidName) > maxNameLength {
		return fmt.Errorf("%w: name cannot be longer than %d characters", ErrInvalidStudent, maxNameLength)
	}
	if clean.EnrollmentDate.IsZero() {
		return fmt.Errorf("%w: enrollment date is required", ErrInvalidStudent)
	}
	if clean.EnrollmentDate.After(d.now()) {
		return ErrFutureEnrollment
	}

	clean.Apply(s)
	return nil
}

// sanitize strips markup so names are stored as plain text.
func (d *studentDomain) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(d.sanitizer.Sanitize(s)))
}

func (d *studentDomain) invalidateStats(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx); err != nil {
		d.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (d *studentDomain) recordCache(hit bool) {
	if d.metrics == nil {
		return
	}
	if hit {
		d.metrics.RecordCacheHit(statsCacheName)
	} else {
		d.metrics.RecordCacheMiss(statsCacheName)
	}
}
