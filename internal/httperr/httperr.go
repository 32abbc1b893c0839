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

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusFor maps a business kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindSlotTaken, KindInvalidState:
		return http.StatusConflict
	case KindInvalidSlot:
		return http.StatusUnprocessableEntity
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindValidation:       "Invalid request.",
	KindNotFound:         "Resource not found.",
	KindSlotTaken:        "This slot is no longer available. Please pick another time.",
	KindInvalidSlot:      "The requested time is not bookable.",
	KindInvalidState:     "The appointment cannot change to that status.",
	KindStoreUnavailable: "Booking is temporarily unavailable. Please try again.",
}

// FromError writes the response for err. Non-business errors become 500s.
func FromError(c *gin.Context, err error) {
	kind, ok := KindOf(err)
	if !ok {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}
	Write(c, StatusFor(kind), CodeOf(err), messages[kind])
}
