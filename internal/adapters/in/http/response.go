package http

import (
	"errors"
	"log/slog"
	"net/http"

	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const kindUnauthenticated = "Unauthenticated"

type successEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type errorEnvelope struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, successEnvelope{OK: true, Data: data})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindInvalidState, errs.KindConflict:
		return http.StatusConflict
	case errs.KindExpired:
		return http.StatusGone
	case errs.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, err error) error {
	if errors.Is(err, ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, errorEnvelope{
			ErrorKind: kindUnauthenticated,
			Message:   err.Error(),
		})
	}

	kind := errs.KindOf(err)
	status := StatusFor(kind)
	message := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		message = http.StatusText(status)
	}
	return c.JSON(status, errorEnvelope{ErrorKind: string(kind), Message: message})
}

// ErrorHandler renders echo's own errors (unknown route, bad method, body too
// large) in the error envelope.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			if ferr := fail(c, err); ferr != nil {
				logger.Error("writing error response", "error", ferr)
			}
			return
		}

		kind := errs.KindInternal
		switch he.Code {
		case http.StatusNotFound:
			kind = errs.KindNotFound
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
			kind = errs.KindValidation
		case http.StatusMethodNotAllowed:
			kind = errs.KindInvalidState
		}
		msg := http.StatusText(he.Code)
		if s, isString := he.Message.(string); isString {
			msg = s
		}
		if werr := c.JSON(he.Code, errorEnvelope{ErrorKind: string(kind), Message: msg}); werr != nil {
			logger.Error("writing error response", "error", werr)
		}
	}
}
