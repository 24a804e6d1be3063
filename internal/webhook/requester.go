package webhook

import "context"

//go:generate mockgen -source=requester.go -destination=requester_mock.go -package=webhook
type Requester interface {
	Request(ctx context.Context, ep Endpoint, method string, body any, opts RequestOptions) (*Response, error)
}
