package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/common"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
)

// getRequestID tries to read X-Request-ID from the request or the response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Stringer("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := common.ErrorResponse{
		Code:    int(appErr.Code),
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps domain and use case errors to the project error type.
// Anything unrecognized is an internal error.
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case stdErrors.Is(err, entities.ErrInvalidQuarter):
		return errors.ErrInvalidQuarter("", err)
	case stdErrors.As(err, &validationErrs):
		appErr = errors.ErrInvalidArgument("Request validation failed")
		appErr.Raw = err
		return appErr
	case stdErrors.As(err, &httpErr):
		appErr = errors.ErrInvalidPayload()
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, usecaseErrors.ErrSymbolRequired), stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("resource")
	default:
		return errors.ErrInternal(err)
	}
}
