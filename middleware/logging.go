package middleware

import (
	"github.com/rs/zerolog"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
	"github.com/noel-archive/orchid/logger"
)

// Logging installs l as the client's logger and logs every hop and outcome
// at level. Failures are logged at warn or above. A nil l uses the global
// logger tagged with the client component.
func Logging(l *logger.Logger, level zerolog.Level) httpclient.Middleware {
	return httpclient.Middleware{
		Name: "logging",
		Init: func(c *httpclient.Client) error {
			log := l
			if log == nil {
				log = logger.WithComponent("httpclient")
			}
			if c.Name() != "" {
				log = log.WithFields(logger.Fields("client", c.Name()))
			}
			c.Extensions().SetLogger(log)
			return nil
		},
		OnRequest: func(c *httpclient.Client, req *httpclient.Request) error {
			c.Extensions().Logger().Log(level, "request", logger.Fields(
				logger.FieldCallID, req.ID(),
				logger.FieldMethod, string(req.Method()),
				logger.FieldURL, req.URL().String(),
				logger.FieldHop, req.Hop(),
			))
			return nil
		},
		OnResponse: func(c *httpclient.Client, res *httpclient.Response) error {
			req := res.Request()
			c.Extensions().Logger().Log(level, "response", logger.Fields(
				logger.FieldCallID, req.ID(),
				logger.FieldMethod, string(req.Method()),
				logger.FieldURL, req.URL().String(),
				logger.FieldStatus, res.StatusCode,
				logger.FieldBytes, len(res.Bytes()),
			))
			return nil
		},
		OnError: func(c *httpclient.Client, req *httpclient.Request, err error) error {
			errLevel := max(level, zerolog.WarnLevel)
			c.Extensions().Logger().Log(errLevel, "call failed", logger.Fields(
				logger.FieldCallID, req.ID(),
				logger.FieldMethod, string(req.Method()),
				logger.FieldURL, req.URL().String(),
				logger.FieldError, err.Error(),
				"code", string(errors.CodeOf(err)),
			))
			return nil
		},
	}
}
