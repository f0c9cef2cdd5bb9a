package transport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/schemalens/core/internal/models"
	"github.com/schemalens/core/internal/parser"
)

// API exposes the two describe endpoints the graph builder consumes, bound to
// one instance host and REST API version.
type API struct {
	client  *Client
	baseURL string
	version string
}

// NewAPI targets an instance by canonical host, e.g. "acme.my.salesforce.com".
func NewAPI(client *Client, host, version string) *API {
	return &API{
		client:  client,
		baseURL: "https://" + host,
		version: version,
	}
}

// ListObjects fetches the global sobjects listing.
func (a *API) ListObjects(ctx context.Context) (*models.ObjectList, error) {
	u := fmt.Sprintf("%s/services/data/%s/sobjects/", a.baseURL, a.version)
	body, err := a.client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return parser.ParseObjectList(body)
}

// DescribeObject fetches the full describe payload for one object.
func (a *API) DescribeObject(ctx context.Context, name string) (*models.ObjectDescribe, error) {
	u := fmt.Sprintf("%s/services/data/%s/sobjects/%s/describe", a.baseURL, a.version, url.PathEscape(name))
	body, err := a.client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return parser.ParseDescribe(body)
}
