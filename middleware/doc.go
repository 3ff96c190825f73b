// Package middleware holds the built-in orchid middleware.
//
// Capabilities (Compression, Forms, Streams) only run Init and switch on a
// client feature. The rest hook into the request lifecycle:
//
//	client, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"},
//		httpclient.WithMiddleware(
//			middleware.Logging(nil, zerolog.InfoLevel),
//			middleware.Timing(50),
//			middleware.RequestID(""),
//			middleware.Bearer(os.Getenv("API_TOKEN")),
//			middleware.RateLimit(rate.Every(100*time.Millisecond), 5),
//		))
//
// The auth middleware all register under the name "auth", so installing a
// second scheme replaces the first.
package middleware
