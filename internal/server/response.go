package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/goshop/internal/errs"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Status     string      `json:"status"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	HTTPStatus string      `json:"httpStatus"`
	Timestamp  time.Time   `json:"timestamp"`
	Error      string      `json:"error,omitempty"`
}

// httpStatusLabel renders "201 Created" style labels for the envelope.
func httpStatusLabel(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

// respond writes a success envelope with the given status code.
func respond(ctx iris.Context, code int, data interface{}, message string) {
	ctx.StatusCode(code)
	_ = ctx.JSON(ApiResponse{
		Status:     "SUCCESS",
		Data:       data,
		Message:    message,
		HTTPStatus: httpStatusLabel(code),
		Timestamp:  time.Now(),
	})
}

// fail maps the error kind to an HTTP status and writes an error envelope.
func fail(ctx iris.Context, err error) {
	code := errs.HTTPStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		// Internal details stay in the logs.
		zap.L().Error("request failed",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Error(err))
		msg = "internal server error"
	}
	ctx.StopWithJSON(code, ApiResponse{
		Status:     "ERROR",
		HTTPStatus: httpStatusLabel(code),
		Timestamp:  time.Now(),
		Error:      msg,
	})
}

// failInvalid shortcuts malformed request bodies and parameters.
func failInvalid(ctx iris.Context, format string, args ...interface{}) {
	fail(ctx, errs.Invalidf(format, args...))
}
