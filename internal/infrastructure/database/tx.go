package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements repository.TxManager on top of GORM transactions.
// The transaction handle travels in the context, so repositories called
// inside the callback automatically join the transaction.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager bound to the given connection.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do runs fn inside a single database transaction.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction stored in the context, or the fallback
// connection scoped to the context when no transaction is open.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
