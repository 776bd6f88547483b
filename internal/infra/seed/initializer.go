package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DbInitializer seeds an empty school database with the sample data set.
type DbInitializer struct {
	log *zap.Logger
}

// NewDbInitializer creates a DbInitializer.
func NewDbInitializer(log *zap.Logger) *DbInitializer {
	if log == nil {
		log = zap.NewNop()
	}
	return &DbInitializer{log: log}
}

// Seed inserts the sample data in one transaction unless a student already exists.
func (d *DbInitializer) Seed(ctx context.Context, sc *database.SchoolContext) error {
	db := sc.DB().WithContext(ctx)

	var count int64
	if err := db.Model(&model.Student{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		d.log.Debug("database already seeded", zap.Int64("students", count))
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		students := Students()
		if err := tx.Create(&students).Error; err != nil {
			return fmt.Errorf("insert students: %w", err)
		}

		courses := Courses()
		if err := tx.Create(&courses).Error; err != nil {
			return fmt.Errorf("insert courses: %w", err)
		}

		enrollments := Enrollments(students)
		if err := tx.Create(&enrollments).Error; err != nil {
			return fmt.Errorf("insert enrollments: %w", err)
		}

		d.log.Info("database seeded",
			zap.Int("students", len(students)),
			zap.Int("courses", len(courses)),
			zap.Int("enrollments", len(enrollments)),
		)
		return nil
	})
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Students returns the sample students.
func Students() []model.Student {
	return []model.Student{
		{FirstMidName: "Carson", LastName: "Alexander", EnrollmentDate: date("2005-09-01")},
		{FirstMidName: "Meredith", LastName: "Alonso", EnrollmentDate: date("2002-09-01")},
		{FirstMidName: "Arturo", LastName: "Anand", EnrollmentDate: date("2003-09-01")},
		{FirstMidName: "Gytis", LastName: "Barzdukas", EnrollmentDate: date("2002-09-01")},
		{FirstMidName: "Yan", LastName: "Li", EnrollmentDate: date("2002-09-01")},
		{FirstMidName: "Peggy", LastName: "Justice", EnrollmentDate: date("2001-09-01")},
		{FirstMidName: "Laura", LastName: "Norman", EnrollmentDate: date("2003-09-01")},
		{FirstMidName: "Nino", LastName: "Olivetto", EnrollmentDate: date("2005-09-01")},
	}
}

// Courses returns the sample courses.
func Courses() []model.Course {
	return []model.Course{
		{CourseID: 1050, Title: "Chemistry", Credits: 3},
		{CourseID: 4022, Title: "Microeconomics", Credits: 3},
		{CourseID: 4041, Title: "Macroeconomics", Credits: 3},
		{CourseID: 1045, Title: "Calculus", Credits: 4},
		{CourseID: 3141, Title: "Trigonometry", Credits: 4},
		{CourseID: 2021, Title: "Composition", Credits: 3},
		{CourseID: 2042, Title: "Literature", Credits: 4},
	}
}

// Enrollments returns the sample enrollments for students as returned by
// Students after they have been assigned IDs.
func Enrollments(students []model.Student) []model.Enrollment {
	e := func(student, course int, grade *model.Grade) model.Enrollment {
		return model.Enrollment{StudentID: students[student].ID, CourseID: course, Grade: grade}
	}
	a, b, c, f := model.GradePtr(model.GradeA), model.GradePtr(model.GradeB), model.GradePtr(model.GradeC), model.GradePtr(model.GradeF)

	return []model.Enrollment{
		e(0, 1050, a),
		e(0, 4022, c),
		e(0, 4041, b),
		e(1, 1045, b),
		e(1, 3141, f),
		e(1, 2021, f),
		e(2, 1050, nil),
		e(3, 1050, nil),
		e(3, 4022, f),
		e(4, 4041, c),
		e(5, 1045, nil),
		e(6, 3141, a),
	}
}
