package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// errorResponse is the consistent JSON shape for HTTP errors.
type errorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	TraceID   string    `json:"trace_id"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SetupErrorHandler installs a centralized HTTP error handler with consistent
// JSON responses and trace IDs.
func SetupErrorHandler(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			c.Echo().DefaultHTTPErrorHandler(err, c)
			return
		}

		code := http.StatusInternalServerError
		message := ""
		if he, ok := err.(*echo.HTTPError); ok && he != nil {
			if he.Code > 0 {
				code = he.Code
			}
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		} else if code == http.StatusInternalServerError {
			// Internal details stay out of responses.
			message = "internal server error"
		}

		resp := errorResponse{
			Error:     http.StatusText(code),
			Message:   message,
			TraceID:   uuid.New().String(),
			Timestamp: time.Now().UTC(),
		}
		if rid, ok := c.Get("request_id").(string); ok {
			resp.RequestID = rid
		}

		if jsonErr := c.JSON(code, resp); jsonErr != nil {
			c.Echo().DefaultHTTPErrorHandler(err, c)
		}
	}
}
