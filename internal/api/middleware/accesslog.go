package middleware

import (
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

var (
	rePassword  = regexp.MustCompile(`(?i)(password=)([^\s&;]+)`)
	reSessionID = regexp.MustCompile(`(?i)(session_?id=)([^\s&;]+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
)

// Mask hides credentials and session ids in a request URI or log line.
func Mask(s string) string {
	out := rePassword.ReplaceAllString(s, "$1***")
	out = reSessionID.ReplaceAllString(out, "$1***")
	return reToken.ReplaceAllString(out, "$1***")
}

// AccessLog writes one zerolog line per request. Query strings carry the MES
// password on login, so the URI is always masked.
func AccessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			} else if v.Status >= 400 {
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", Mask(v.URI)).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
