package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/blinkreg/internal/regerror"
	"github.com/sirupsen/logrus"
)

// HTTPErrorHandler returns a middleware that formats rendered errors.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if herr, ok := err.(*echo.HTTPError); ok {
			log.WithField("status", herr.Code).Debugf("Error [ECHO]: %v", herr.Internal)
			_ = c.JSON(herr.Code, echo.Map{
				"error": echo.Map{
					"message": herr.Message,
				},
			})
			return
		}

		if rerr, ok := regerror.As(err); ok {
			status := regerror.StatusCode(rerr)
			if status < 500 {
				log.WithField("tag", rerr.Tag()).Debugf("Error [%d]: %s", status, err)
				_ = c.JSON(status, rerr)
				return
			}
		}

		internal(log, err, c)
	}
}

func internal(log logrus.FieldLogger, err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	log.WithField("id", id).Errorf("Error [%s]: %+v", id, err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"error": echo.Map{
			"message": fmt.Sprintf("Unexpected error (id: %s)", id),
		},
	})
}
