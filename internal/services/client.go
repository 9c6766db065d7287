package services

import "context"

// APIClient is the subset of the gateway client the services need.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}
