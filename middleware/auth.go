package middleware

import (
	"context"
	"encoding/base64"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
)

// Credentials are attached on the first hop only. Same-host redirects carry
// them along with the other headers; the client strips them when a redirect
// leaves the host.
const authName = "auth"

// TokenSource returns the token for the call bound to ctx.
type TokenSource func(ctx context.Context) (string, error)

// KeyLocation says where APIKey puts its key.
type KeyLocation int

const (
	InHeader KeyLocation = iota
	InQuery
)

// Bearer sends "authorization: Bearer <token>" unless the request already
// carries an authorization header.
func Bearer(token string) httpclient.Middleware {
	return BearerFrom(func(context.Context) (string, error) { return token, nil })
}

// BearerFrom asks src for a token once per call. A source error fails the
// call.
func BearerFrom(src TokenSource) httpclient.Middleware {
	return httpclient.OnRequest(authName, func(_ *httpclient.Client, req *httpclient.Request) error {
		if req.Hop() > 0 || req.HasHeader("authorization") {
			return nil
		}
		token, err := src(req.Context())
		if err != nil {
			return err
		}
		req.Header("authorization", "Bearer "+token)
		return nil
	})
}

// Basic sends HTTP basic credentials.
func Basic(username, password string) httpclient.Middleware {
	cred := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return httpclient.OnRequest(authName, func(_ *httpclient.Client, req *httpclient.Request) error {
		if req.Hop() > 0 {
			return nil
		}
		req.Header("authorization", "Basic "+cred)
		return nil
	})
}

// APIKey sends value under name, as a header or a query parameter.
func APIKey(name, value string, in KeyLocation) httpclient.Middleware {
	return httpclient.Middleware{
		Name: authName,
		Init: func(*httpclient.Client) error {
			if name == "" {
				return errors.InvalidConfig("api key name is required")
			}
			return nil
		},
		OnRequest: func(_ *httpclient.Client, req *httpclient.Request) error {
			if req.Hop() > 0 {
				return nil
			}
			if in == InQuery {
				req.Query(name, value)
			} else {
				req.Header(name, value)
			}
			return nil
		},
	}
}
