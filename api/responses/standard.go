package responses

import (
	"net/http"

	"github.com/Aidin1998/calendars/common/apiutil"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/gin-gonic/gin"
)

// ProblemContentType is the media type of every error body.
const ProblemContentType = "application/problem+json"

// JSON sends v as the response body with the given status.
func JSON(c *gin.Context, status int, v interface{}) {
	c.JSON(status, v)
}

// OK sends 200 with v as the body.
func OK(c *gin.Context, v interface{}) {
	JSON(c, http.StatusOK, v)
}

// Empty sends status with no body.
func Empty(c *gin.Context, status int) {
	c.Status(status)
}

// Error sends an RFC 7807 problem body and aborts the handler chain.
func Error(c *gin.Context, problem *errors.ProblemDetails) {
	if problem.TraceID == "" {
		if traceID := getTraceID(c); traceID != "" {
			problem.WithTraceID(traceID)
		}
	}

	c.Header("Content-Type", ProblemContentType)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// Problem renders err as a problem for the current request.
func Problem(c *gin.Context, err error) {
	Error(c, errors.NewProblemDetails(err, c.Request.URL.Path))
}

func getTraceID(c *gin.Context) string {
	return apiutil.TraceID(c)
}
