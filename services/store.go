package services

import (
	"slipflow/models"

	"gorm.io/gorm"
)

// TransactionStore is the slice of persistence the engine mutates through.
// The slip_ref unique index makes Create the atomic duplicate guard.
type TransactionStore interface {
	Create(txn *models.PendingTransaction) error
	Save(txn *models.PendingTransaction) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) TransactionStore {
	return &gormStore{db: db}
}

func (s *gormStore) Create(txn *models.PendingTransaction) error {
	return s.db.Create(txn).Error
}

func (s *gormStore) Save(txn *models.PendingTransaction) error {
	return s.db.Save(txn).Error
}
