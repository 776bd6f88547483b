package course

import apperrors "github.com/contoso/university/internal/utils/errors"

// Domain errors.
var (
	ErrCourseNotFound = apperrors.New(apperrors.ErrNotFound, "course_not_found", "course not found")
)
