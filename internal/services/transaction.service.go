package services

import (
	"context"

	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	"gorm.io/gorm"
)

type transactionKey struct{}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a single transaction. Repositories called with the
// context passed to fn join that transaction through GetTransaction. A nested
// call reuses the outer transaction.
func (s *TransactionService) Execute(
	ctx context.Context,
	fn func(ctx context.Context) error,
) error {
	if _, ok := GetTransaction(ctx); ok {
		return fn(ctx)
	}

	log := s.log.Function("Execute")

	err := s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, transactionKey{}, tx))
	})
	if err != nil {
		return log.Err("transaction failed", err)
	}

	return nil
}

func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
