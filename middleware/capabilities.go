package middleware

import "github.com/noel-archive/orchid/httpclient"

// Compression makes requests ask for gzip/deflate responses unless they opt out.
func Compression() httpclient.Middleware {
	return httpclient.Setup("compression", func(c *httpclient.Client) error {
		c.Extensions().EnableCompression()
		return nil
	})
}

// Forms allows multipart bodies.
func Forms() httpclient.Middleware {
	return httpclient.Setup("forms", func(c *httpclient.Client) error {
		c.Extensions().EnableForms()
		return nil
	})
}

// Streams enables Response.Stream, Pipe and Events.
func Streams() httpclient.Middleware {
	return httpclient.Setup("streams", func(c *httpclient.Client) error {
		c.Extensions().EnableStreams()
		return nil
	})
}
