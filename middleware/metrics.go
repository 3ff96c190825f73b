package middleware

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
	"github.com/noel-archive/orchid/observability"
)

// Metrics records call counts, durations, in-flight calls and failures on
// meter. A nil meter uses the global provider.
func Metrics(meter metric.Meter) httpclient.Middleware {
	if meter == nil {
		meter = observability.Meter(nil)
	}
	var (
		instruments *observability.ClientMetrics
		started     sync.Map // call id -> time.Time
	)

	return httpclient.Middleware{
		Name: "metrics",
		Init: func(*httpclient.Client) error {
			m, err := observability.NewClientMetrics(meter)
			if err != nil {
				return err
			}
			instruments = m
			return nil
		},
		OnRequest: func(_ *httpclient.Client, req *httpclient.Request) error {
			if _, loaded := started.LoadOrStore(req.ID(), time.Now()); !loaded {
				instruments.RecordStart(context.WithoutCancel(req.Context()))
			}
			return nil
		},
		OnResponse: func(_ *httpclient.Client, res *httpclient.Response) error {
			req := res.Request()
			v, ok := started.LoadAndDelete(req.ID())
			if !ok {
				return nil
			}
			instruments.RecordEnd(context.WithoutCancel(req.Context()),
				string(req.Method()), req.URL().Hostname(), res.StatusCode, time.Since(v.(time.Time)))
			return nil
		},
		OnError: func(_ *httpclient.Client, req *httpclient.Request, err error) error {
			if _, ok := started.LoadAndDelete(req.ID()); !ok {
				return nil
			}
			code := string(errors.CodeOf(err))
			if code == "" {
				code = "UNKNOWN"
			}
			instruments.RecordError(context.WithoutCancel(req.Context()),
				string(req.Method()), req.URL().Hostname(), code)
			return nil
		},
	}
}
