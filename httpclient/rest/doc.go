// Package rest provides typed JSON helpers over an orchid client.
//
//	client, err := rest.New(httpclient.Config{BaseURL: "https://api.example.com"})
//
//	// Typed GET
//	user, err := rest.Get[User](ctx, client, "/users/123")
//
//	// Typed POST
//	created, err := rest.Post[User](ctx, client, "/users", CreateUserRequest{Name: "Alice"})
//
// Middleware installed on the underlying client (auth, logging, tracing)
// applies to every call.
package rest
