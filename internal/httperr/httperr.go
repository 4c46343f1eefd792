package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var statusByCode = map[string]int{
	CodePermissionDenied:        http.StatusForbidden,
	CodeNotFound:                http.StatusNotFound,
	CodeInvalidOperation:        http.StatusBadRequest,
	CodeSlotConflict:            http.StatusConflict,
	CodeActiveAppointmentExists: http.StatusConflict,
	CodeInvalidService:          http.StatusBadRequest,
	CodeInvalidTransition:       http.StatusBadRequest,
	CodeInvalidState:            http.StatusBadRequest,
}

var messageByCode = map[string]string{
	CodePermissionDenied:        "You do not have permission to perform this action.",
	CodeNotFound:                "The requested resource was not found.",
	CodeInvalidOperation:        "This operation is not allowed.",
	CodeSlotConflict:            "This time slot is already booked. Please pick another one.",
	CodeActiveAppointmentExists: "You already have an active appointment. Cancel it before booking a new one.",
	CodeInvalidService:          "One or more of the selected services do not exist.",
	CodeInvalidTransition:       "This status change is not allowed.",
	CodeInvalidState:            "The appointment is not in a state that allows this action.",
}

// WriteBusiness maps a business error to its HTTP response. Unknown errors
// become a generic 500.
func WriteBusiness(c *gin.Context, err error) {
	if code, ok := BusinessCode(err); ok {
		status, known := statusByCode[code]
		if !known {
			status = http.StatusBadRequest
		}
		Write(c, status, code, messageByCode[code])
		return
	}
	Internal(c, "internal_error", "Something went wrong. Please try again.")
}
