// Package httpclient is the orchid HTTP client: a request builder, a
// middleware pipeline with request, response and error phases, a dispatch
// engine that chases redirects and decodes compressed bodies, and buffered
// responses decoded through a content-type keyed serializer registry.
//
// Subpackages:
//
//   - rest: generic typed JSON helpers over a Client
//   - sse: Server-Sent Events reader
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Defaults: httpclient.Defaults{
//	        Headers: map[string]string{"accept": "application/json"},
//	        Timeout: 10 * time.Second,
//	    },
//	})
//
//	res, err := client.Do(ctx, client.Get("/users/123").Query("expand", "teams"))
//	var user User
//	err = res.JSON(&user)
//
// # Call Shapes
//
// Client.Request and Client.Fetch accept a URL with an explicit method and
// options, a descriptor-shaped Options value on its own, or a URL with the
// method inside the options:
//
//	client.Fetch(ctx, "/users", httpclient.MethodPost, httpclient.Options{Data: user})
//	client.Fetch(ctx, httpclient.Options{Method: "POST", URL: "/users", Data: user})
//	client.Fetch(ctx, "/users", httpclient.Options{Method: "POST", Data: user})
//
// Supplying the same field twice with different values fails with an
// AmbiguousRequestError before anything is sent.
//
// # Middleware
//
// Middleware are plain structs of optional hooks. Init runs once when the
// middleware is registered; OnRequest runs before every hop; OnResponse runs
// once with the final response; OnError runs once when the call fails.
//
//	client.Use(httpclient.OnRequest("tenant", func(_ *httpclient.Client, r *httpclient.Request) error {
//	    r.SetHeader("x-tenant", tenant)
//	    return nil
//	}))
//
// The middleware package ships logging, timing, compression, forms, streams,
// auth, request id, tracing, metrics and rate limiting.
package httpclient
