package service

import (
	"go.uber.org/zap"

	"github.com/schemalens/core/internal/transport"
)

// APIClientFactory builds the production ClientFactory over the REST
// transport. Each request gets its own client since the token is per caller.
func APIClientFactory(apiVersion string, maxRetries uint64, logger *zap.Logger) ClientFactory {
	return func(host, token string) MetadataClient {
		client := transport.New(transport.Options{
			Token:      token,
			MaxRetries: maxRetries,
		}, logger)
		return transport.NewAPI(client, host, apiVersion)
	}
}
