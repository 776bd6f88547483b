package sqldb

import (
	"context"
	"errors"

	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"gorm.io/gorm"
)

// courseAdapter implements outbound.CourseDatabasePort.
type courseAdapter struct {
	factory *database.ContextFactory
}

// NewCourseAdapter creates a new course database adapter.
func NewCourseAdapter(factory *database.ContextFactory) outbound.CourseDatabasePort {
	return &courseAdapter{factory: factory}
}

func (a *courseAdapter) FindAll(ctx context.Context) ([]*model.Course, error) {
	var courses []*model.Course
	if err := a.factory.Conn(ctx).Order("course_id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (a *courseAdapter) FindByID(ctx context.Context, id int) (*model.Course, error) {
	var c model.Course
	err := a.factory.Conn(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB { return db.Order("student_id") }).
		Preload("Enrollments.Student").
		First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}
