package inbound

import "github.com/gin-gonic/gin"

// HomeHttpPort defines the Home controller actions.
type HomeHttpPort interface {
	// Index handles GET /Home/Index
	Index(c *gin.Context)

	// About handles GET /Home/About
	About(c *gin.Context)

	// Privacy handles GET /Home/Privacy
	Privacy(c *gin.Context)

	// Error handles /Home/Error
	Error(c *gin.Context)
}

// StudentsHttpPort defines the Students controller actions.
type StudentsHttpPort interface {
	// Index handles GET /Students/Index
	Index(c *gin.Context)

	// Details handles GET /Students/Details/{id}
	Details(c *gin.Context)

	// CreateForm handles GET /Students/Create
	CreateForm(c *gin.Context)

	// Create handles POST /Students/Create
	Create(c *gin.Context)

	// EditForm handles GET /Students/Edit/{id}
	EditForm(c *gin.Context)

	// Edit handles POST /Students/Edit/{id}
	Edit(c *gin.Context)

	// DeleteConfirm handles GET /Students/Delete/{id}
	DeleteConfirm(c *gin.Context)

	// Delete handles POST /Students/Delete/{id}
	Delete(c *gin.Context)
}

// CoursesHttpPort defines the Courses controller actions.
type CoursesHttpPort interface {
	// Index handles GET /Courses/Index
	Index(c *gin.Context)

	// Details handles GET /Courses/Details/{id}
	Details(c *gin.Context)
}

// SchoolAPIPort defines the read-only JSON API.
type SchoolAPIPort interface {
	// ListStudents handles GET /api/v1/students
	ListStudents(c *gin.Context)

	// GetStudent handles GET /api/v1/students/:id
	GetStudent(c *gin.Context)

	// ListCourses handles GET /api/v1/courses
	ListCourses(c *gin.Context)

	// EnrollmentStats handles GET /api/v1/stats/enrollment-dates
	EnrollmentStats(c *gin.Context)
}
