package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/common"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,19}$`)

// RequireTranscriptPath middleware: normalizes the :symbol path parameter to
// upper case and rejects malformed :symbol or :quarter values before the
// handler runs
func RequireTranscriptPath() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			names := c.ParamNames()
			values := c.ParamValues()

			for i, name := range names {
				if i >= len(values) {
					break
				}
				switch name {
				case "symbol":
					symbol := strings.ToUpper(strings.TrimSpace(values[i]))
					if !symbolPattern.MatchString(symbol) {
						return c.JSON(http.StatusBadRequest, common.ErrorResponse{
							Code:    int(errors.ErrorCode_INVALID_ARGUMENT),
							Message: "symbol must be 1-20 letters, digits, dots or dashes",
							Details: map[string]string{"symbol": values[i]},
						})
					}
					values[i] = symbol
				case "quarter":
					if _, err := entities.ParseFiscalQuarter(values[i]); err != nil {
						appErr := errors.ErrInvalidQuarter(values[i], err)
						return c.JSON(appErr.HTTPCode, common.ErrorResponse{
							Code:    int(appErr.Code),
							Message: appErr.Message,
							Info:    err.Error(),
							Details: appErr.Details,
						})
					}
				}
			}

			c.SetParamValues(values...)
			return next(c)
		}
	}
}
