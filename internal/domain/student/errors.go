package student

import apperrors "github.com/contoso/university/internal/utils/errors"

// Domain errors.
var (
	ErrStudentNotFound  = apperrors.New(apperrors.ErrNotFound, "student_not_found", "student not found")
	ErrInvalidStudent   = apperrors.New(apperrors.ErrInvalid, "invalid_student", "invalid student")
	ErrFutureEnrollment = apperrors.New(apperrors.ErrInvalid, "future_enrollment", "enrollment date is in the future")
)
