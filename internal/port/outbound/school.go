package outbound

import (
	"context"

	"github.com/contoso/university/internal/model"
)

// StudentDatabasePort defines student persistence operations.
type StudentDatabasePort interface {
	// Create creates a new student.
	Create(ctx context.Context, student *model.Student) error

	// FindByID finds a student by ID with enrollments and their courses.
	FindByID(ctx context.Context, id int) (*model.Student, error)

	// FindByQuery finds one page of students and the total match count.
	FindByQuery(ctx context.Context, query model.StudentQuery) ([]*model.Student, int64, error)

	// Update updates a student.
	Update(ctx context.Context, student *model.Student) error

	// Delete deletes a student and its enrollments.
	Delete(ctx context.Context, id int) error

	// CountByEnrollmentDate groups students by enrollment date.
	CountByEnrollmentDate(ctx context.Context) ([]model.EnrollmentDateGroup, error)
}

// CourseDatabasePort defines course persistence operations.
type CourseDatabasePort interface {
	// FindAll lists all courses ordered by ID.
	FindAll(ctx context.Context) ([]*model.Course, error)

	// FindByID finds a course by ID with its enrollments and students.
	FindByID(ctx context.Context, id int) (*model.Course, error)
}
