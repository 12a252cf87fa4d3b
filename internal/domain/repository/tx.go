package repository

import "context"

// TxManager runs a function inside a single database transaction. Every
// repository call made with the context it passes to fn joins that
// transaction, so multi-entity operations (budget conversion, payment
// registration) either fully commit or fully roll back.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
