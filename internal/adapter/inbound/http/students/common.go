package studentshttp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/contoso/university/internal/domain/student"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var fieldLabels = map[string]string{
	"LastName":       "Last Name",
	"FirstMidName":   "First Name",
	"EnrollmentDate": "Enrollment Date",
}

// RegisterValidators installs the "notfuture" rule on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator is not go-playground/validator")
	}
	return v.RegisterValidation("notfuture", notFuture)
}

func notFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.After(time.Now())
}

// bindingMessages turns a form binding error into messages for the view.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"The submitted values are not valid. Dates use the YYYY-MM-DD format."}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("The %s field is required.", label))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s cannot be longer than %s characters.", label, fe.Param()))
		case "notfuture":
			msgs = append(msgs, fmt.Sprintf("%s cannot be in the future.", label))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid.", label))
		}
	}
	return msgs
}

// domainMessage returns the message shown for a rejected student, or false
// for errors that are not validation failures.
func domainMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, student.ErrFutureEnrollment):
		return "Enrollment Date cannot be in the future.", true
	case errors.Is(err, student.ErrInvalidStudent):
		return err.Error(), true
	default:
		return "", false
	}
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}
