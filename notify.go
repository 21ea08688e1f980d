package main

import "context"

type Notifier interface {
	NotifyInvocation(ctx context.Context, req InvocationRequest, invocationErr error) error
}
