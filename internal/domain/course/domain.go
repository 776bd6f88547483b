package course

import (
	"context"
	"fmt"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"go.uber.org/zap"
)

// CourseDomain defines course domain service interface.
type CourseDomain interface {
	List(ctx context.Context) ([]*model.Course, error)
	Get(ctx context.Context, id int) (*model.Course, error)
}

// courseDomain implements CourseDomain.
type courseDomain struct {
	courseDB outbound.CourseDatabasePort
	logger   *zap.Logger
}

// NewCourseDomain creates a new course domain service.
func NewCourseDomain(courseDB outbound.CourseDatabasePort, logger *zap.Logger) CourseDomain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &courseDomain{courseDB: courseDB, logger: logger}
}

func (d *courseDomain) List(ctx context.Context) ([]*model.Course, error) {
	courses, err := d.courseDB.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (d *courseDomain) Get(ctx context.Context, id int) (*model.Course, error) {
	if id <= 0 {
		return nil, ErrCourseNotFound
	}
	c, err := d.courseDB.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}
