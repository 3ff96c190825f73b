package middleware

import (
	"github.com/google/uuid"

	"github.com/noel-archive/orchid/httpclient"
)

// DefaultRequestIDHeader is the header RequestID sets when none is given.
const DefaultRequestIDHeader = "x-request-id"

// RequestID tags each call with a random UUID in header. A value already on
// the request is kept, and redirect hops reuse the first hop's value.
func RequestID(header string) httpclient.Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return httpclient.OnRequest("request-id", func(_ *httpclient.Client, req *httpclient.Request) error {
		if !req.HasHeader(header) {
			req.Header(header, uuid.NewString())
		}
		return nil
	})
}
