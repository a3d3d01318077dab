package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type RequestObserver interface {
	ObserveRequest(method, route string, status int, latencyMS float64)
}

// アクセスログ（zerolog）とHTTPメトリクス。
// request_id付きのloggerをcontextに載せるので、ハンドラ側はzerolog.Ctxで取り出せる。
// RequestIDより後ろに置くこと。
func RequestLogger(log zerolog.Logger, obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqLog := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(c.Request().WithContext(reqLog.WithContext(c.Request().Context())))

			err := next(c)
			if err != nil {
				//echoのエラーハンドラでレスポンスを確定させる
				c.Error(err)
			}

			latency := time.Since(start)
			req := c.Request()
			res := c.Response()

			route := c.Path()
			if route == "" {
				route = "unknown"
			}
			if obs != nil {
				obs.ObserveRequest(req.Method, route, res.Status, float64(latency.Microseconds())/1000)
			}

			ev := reqLog.Info()
			if res.Status >= 500 {
				ev = reqLog.Error().Err(err)
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", latency).
				Msg("request")

			return nil
		}
	}
}
