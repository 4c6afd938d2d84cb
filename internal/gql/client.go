package gql

import (
	"net/http"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"tutorial/internal/config"
)

const defaultTimeout = 15 * time.Second

// NewClient returns a genqlient client for the CMS endpoint in cfg. Requests
// carry a Payload "JWT" authorization header when a token is configured.
func NewClient(cfg config.Config) genqlientgraphql.Client {
	timeout := cfg.GraphQLTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &cmsTransport{
			base:  http.DefaultTransport,
			token: cfg.GraphQLAuthToken,
		},
	}
	return genqlientgraphql.NewClient(cfg.GraphQLEndpoint, httpClient)
}

type cmsTransport struct {
	base  http.RoundTripper
	token string
}

func (t *cmsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Accept", "application/json")
	if t.token != "" {
		clone.Header.Set("Authorization", "JWT "+t.token)
	}
	return t.base.RoundTrip(clone)
}
