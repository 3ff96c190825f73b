package middleware

import (
	"time"

	"github.com/noel-archive/orchid/httpclient"
	"github.com/noel-archive/orchid/logger"
)

// Timing measures each call from its first request hook to its response,
// redirects included, and keeps the last history durations in the client's
// Timings extension. Failed calls are not recorded.
func Timing(history int) httpclient.Middleware {
	return httpclient.Middleware{
		Name: "timing",
		Init: func(c *httpclient.Client) error {
			c.Extensions().SetTimings(httpclient.NewTimings(history))
			return nil
		},
		OnRequest: func(c *httpclient.Client, req *httpclient.Request) error {
			if t := c.Extensions().Timings(); t != nil {
				t.Start(req.ID(), time.Now())
			}
			return nil
		},
		OnResponse: func(c *httpclient.Client, res *httpclient.Response) error {
			t := c.Extensions().Timings()
			if t == nil {
				return nil
			}
			req := res.Request()
			if d, ok := t.Stop(req.ID(), time.Now()); ok {
				c.Extensions().Logger().Debug("request timed", logger.Merge(
					logger.DurationFields(string(req.Method())+" "+req.URL().Path, d),
					logger.Fields(logger.FieldCallID, req.ID(), logger.FieldStatus, res.StatusCode),
				))
			}
			return nil
		},
		OnError: func(c *httpclient.Client, req *httpclient.Request, _ error) error {
			if t := c.Extensions().Timings(); t != nil {
				t.Discard(req.ID())
			}
			return nil
		},
	}
}
