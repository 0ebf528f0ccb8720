package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository is the postgres-backed ledger. It satisfies
// ledger.Store and adds queries the admin API uses.
type AccountRepository interface {
	ledger.Store

	CountByKind(ctx context.Context) (map[string]int64, error)
	ListByKind(ctx context.Context, kind string, limit, offset int) ([]*models.Account, error)
}

// accountRepository implements AccountRepository
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// View runs fn in a read-only transaction.
func (r *accountRepository) View(ctx context.Context, fn func(ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx, readOnly: true})
	}, &sql.TxOptions{ReadOnly: true})
}

// Update runs fn in a read-write transaction. Rows read through the Tx are
// locked until commit, so concurrent updates of one account serialize.
func (r *accountRepository) Update(ctx context.Context, fn func(ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// Close closes the underlying connection pool.
func (r *accountRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountByKind returns the number of accounts of every kind.
func (r *accountRepository) CountByKind(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Select("kind, count(*) as count").
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

// ListByKind pages through accounts of one kind, newest first.
func (r *accountRepository) ListByKind(ctx context.Context, kind string, limit, offset int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts: %w", kind, err)
	}
	return accounts, nil
}

type gormTx struct {
	db       *gorm.DB
	readOnly bool
}

func (t *gormTx) Get(addr ledger.Address) ([]byte, error) {
	q := t.db
	if !t.readOnly {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var account models.Account
	err := q.Where("address = ?", addr.String()).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", addr, err)
	}
	return account.Data, nil
}

func (t *gormTx) Create(addr ledger.Address, data []byte) error {
	if t.readOnly {
		return ledger.ErrReadOnly
	}
	account := &models.Account{
		Address: addr.String(),
		Kind:    models.AccountKind(data),
		Data:    append([]byte(nil), data...),
	}
	result := t.db.Clauses(clause.OnConflict{DoNothing: true}).Create(account)
	if result.Error != nil {
		return fmt.Errorf("failed to create account %s: %w", addr, result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrAccountExists
	}
	return nil
}

func (t *gormTx) Put(addr ledger.Address, data []byte) error {
	if t.readOnly {
		return ledger.ErrReadOnly
	}
	result := t.db.
		Model(&models.Account{}).
		Where("address = ?", addr.String()).
		Updates(map[string]interface{}{
			"data": append([]byte(nil), data...),
			"kind": models.AccountKind(data),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update account %s: %w", addr, result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}
