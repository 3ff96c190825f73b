package middleware

import (
	"golang.org/x/time/rate"

	"github.com/noel-archive/orchid/httpclient"
)

// RateLimit blocks each hop until a token-bucket limiter of r events per
// second with the given burst admits it. Waiting honours the call's
// cancellation.
func RateLimit(r rate.Limit, burst int) httpclient.Middleware {
	return RateLimitWith(rate.NewLimiter(r, burst))
}

// RateLimitWith shares l, e.g. across several clients calling one API.
func RateLimitWith(l *rate.Limiter) httpclient.Middleware {
	return httpclient.OnRequest("ratelimit", func(_ *httpclient.Client, req *httpclient.Request) error {
		return l.Wait(req.Context())
	})
}
