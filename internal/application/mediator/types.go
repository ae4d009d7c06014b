package mediator

import "context"

// Request is any command sent through the mediator; its dynamic type selects the handler
type Request = any

// Response is whatever the handler returns for a request
type Response = any

// RequestHandler handles one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to RequestHandler and is the unit middlewares wrap
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware runs around the handler and must call next to continue the chain
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
