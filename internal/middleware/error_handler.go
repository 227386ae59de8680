package middleware

import (
	"errors"
	"net/http"
	"time"

	"skyorder/internal/apierror"
	"skyorder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// statusFor maps service errors onto HTTP statuses. Zero means the error is
// not a domain outcome and must be treated as a store failure.
func statusFor(err error) int {
	var notAllowed *service.DeletionNotAllowedError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &notAllowed), errors.Is(err, service.ErrSetmealEnableFailed):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	}
	return 0
}

// AbortWithError answers with the envelope for err. Domain errors carry their
// message; anything else is logged in full and reported with the request id only.
func AbortWithError(c *gin.Context, err error) {
	if status := statusFor(err); status != 0 {
		c.AbortWithStatusJSON(status, apierror.New(err.Error()))
		return
	}
	withRequest(log.Error(), c).Err(err).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Internal(c.GetString(RequestIDKey)))
}

// ErrorHandler answers for errors handlers attached with c.Error but did not
// write themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if c.Writer.Written() {
			withRequest(log.Warn(), c).Err(err).Msg("error after response was written")
			return
		}
		AbortWithError(c, err)
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				withRequest(log.Error(), c).Interface("panic", r).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.Internal(c.GetString(RequestIDKey)))
			}
		}()
		c.Next()
	}
}

// Logger logs each request; authenticated ones carry the caller's id and role.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		withRequest(log.Info(), c).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func withRequest(e *zerolog.Event, c *gin.Context) *zerolog.Event {
	e = e.Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
	if claims := GetClaims(c); claims != nil {
		e = e.Int64("user_id", claims.UserID).Str("role", claims.Role)
	}
	return e
}
