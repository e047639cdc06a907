package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/middleware"
)

// statusFor maps a domain error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	var validation *domain.ValidationError
	var analysis *domain.AnalysisError

	switch {
	case errors.As(err, &validation),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrUnknownLocale),
		errors.Is(err, domain.ErrUnknownQuestion):
		return http.StatusBadRequest, domain.ErrCodeInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrCodeNotFound
	case errors.Is(err, domain.ErrIncompleteAssessment):
		return http.StatusConflict, domain.ErrCodeIncomplete
	case errors.Is(err, domain.ErrAnalysisInFlight):
		return http.StatusConflict, domain.ErrCodeInFlight
	case errors.As(err, &analysis):
		switch {
		case errors.Is(err, domain.ErrConfiguration):
			return http.StatusUnprocessableEntity, analysis.Code()
		case errors.Is(err, domain.ErrTimeout):
			return http.StatusGatewayTimeout, analysis.Code()
		default:
			return http.StatusBadGateway, analysis.Code()
		}
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternal
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	requestID := c.GetString(middleware.CorrelationIDKey)

	message := err.Error()
	details := ""
	var analysis *domain.AnalysisError
	if errors.As(err, &analysis) && errors.Is(err, domain.ErrParse) {
		details = analysis.Raw
	}
	if status == http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"correlation_id": requestID,
			"error":          err.Error(),
		}).Error("Unhandled request error")
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, requestID))
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, domain.NewAPIError(
		domain.ErrCodeInvalidInput, "malformed request body", err.Error(), c.GetString(middleware.CorrelationIDKey)))
}
