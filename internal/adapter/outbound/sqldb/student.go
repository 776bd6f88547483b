// Package sqldb implements the school persistence ports on gorm.
package sqldb

import (
	"context"
	"errors"
	"strings"

	"github.com/contoso/university/internal/domain/student"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// studentAdapter implements outbound.StudentDatabasePort.
type studentAdapter struct {
	factory *database.ContextFactory
}

// NewStudentAdapter creates a new student database adapter. Queries run on the
// SchoolContext bound to the request context.
func NewStudentAdapter(factory *database.ContextFactory) outbound.StudentDatabasePort {
	return &studentAdapter{factory: factory}
}

func (a *studentAdapter) Create(ctx context.Context, s *model.Student) error {
	return a.factory.Conn(ctx).Omit(clause.Associations).Create(s).Error
}

func (a *studentAdapter) FindByID(ctx context.Context, id int) (*model.Student, error) {
	var s model.Student
	err := a.factory.Conn(ctx).
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB { return db.Order("course_id") }).
		Preload("Enrollments.Course").
		First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, student.ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (a *studentAdapter) FindByQuery(ctx context.Context, q model.StudentQuery) ([]*model.Student, int64, error) {
	var students []*model.Student
	var total int64

	query := a.factory.Conn(ctx).Model(&model.Student{})
	if q.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		query = query.Where(`LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(first_mid_name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(studentOrder(q.Sort)).
		Order("id").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// likeEscaper quotes the LIKE wildcards so a search matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "[", `\[`)

func studentOrder(sort model.StudentSort) clause.OrderByColumn {
	switch sort {
	case model.SortByNameDesc:
		return clause.OrderByColumn{Column: clause.Column{Name: "last_name"}, Desc: true}
	case model.SortByDate:
		return clause.OrderByColumn{Column: clause.Column{Name: "enrollment_date"}}
	case model.SortByDateDesc:
		return clause.OrderByColumn{Column: clause.Column{Name: "enrollment_date"}, Desc: true}
	default:
		return clause.OrderByColumn{Column: clause.Column{Name: "last_name"}}
	}
}

func (a *studentAdapter) Update(ctx context.Context, s *model.Student) error {
	result := a.factory.Conn(ctx).
		Model(&model.Student{ID: s.ID}).
		Select("last_name", "first_mid_name", "enrollment_date").
		Updates(map[string]any{
			"last_name":       s.LastName,
			"first_mid_name":  s.FirstMidName,
			"enrollment_date": s.EnrollmentDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

func (a *studentAdapter) Delete(ctx context.Context, id int) error {
	return a.factory.Conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Student{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return student.ErrStudentNotFound
		}
		return nil
	})
}

func (a *studentAdapter) CountByEnrollmentDate(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	var groups []model.EnrollmentDateGroup
	err := a.factory.Conn(ctx).
		Model(&model.Student{}).
		Select("enrollment_date, COUNT(*) AS student_count").
		Group("enrollment_date").
		Order("enrollment_date").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}
