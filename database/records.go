package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devcol-labs/devcol-backend/errs"
	"github.com/devcol-labs/devcol-backend/ledger"
	"github.com/devcol-labs/devcol-backend/models"
)

// recordRow is the table form of a ledger record. The payload stays an opaque
// length-prefixed blob; only the addressing and accounting columns are lifted
// out.
type recordRow struct {
	Address       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          int16     `gorm:"not null"`
	Owner         string    `gorm:"type:varchar(64);not null;index"`
	SchemaVersion int16     `gorm:"not null"`
	Size          int       `gorm:"not null"`
	Deposit       int64     `gorm:"not null"`
	Data          []byte    `gorm:"type:bytea;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (recordRow) TableName() string {
	return "records"
}

type balanceRow struct {
	Identity  string `gorm:"type:varchar(64);primaryKey"`
	Funds     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (balanceRow) TableName() string {
	return "balances"
}

// RecordStore implements ledger.Store on Postgres. Atomically maps onto a
// single database transaction, so a failed operation leaves every record
// byte-for-byte unchanged.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db}
}

func toRow(rec *ledger.Record) *recordRow {
	return &recordRow{
		Address:       rec.Address,
		Kind:          int16(rec.Kind),
		Owner:         string(rec.Owner),
		SchemaVersion: int16(rec.SchemaVersion),
		Size:          rec.Size,
		Deposit:       rec.Deposit,
		Data:          rec.Data,
	}
}

func fromRow(row *recordRow) *ledger.Record {
	return &ledger.Record{
		Address:       row.Address,
		Kind:          ledger.Kind(row.Kind),
		Owner:         models.Identity(row.Owner),
		SchemaVersion: uint8(row.SchemaVersion),
		Size:          row.Size,
		Deposit:       row.Deposit,
		Data:          row.Data,
	}
}

func (s *RecordStore) Get(ctx context.Context, addr uuid.UUID) (*ledger.Record, error) {
	var row recordRow
	err := s.db.WithContext(ctx).First(&row, "address = ?", addr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("record")
	}
	if err != nil {
		return nil, err
	}
	return fromRow(&row), nil
}

func (s *RecordStore) Create(ctx context.Context, rec *ledger.Record) error {
	err := s.db.WithContext(ctx).Create(toRow(rec)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewAlreadyExists("record")
	}
	return err
}

func (s *RecordStore) Update(ctx context.Context, rec *ledger.Record) error {
	res := s.db.WithContext(ctx).Model(&recordRow{}).
		Where("address = ?", rec.Address).
		Updates(map[string]any{
			"kind":           int16(rec.Kind),
			"owner":          string(rec.Owner),
			"schema_version": int16(rec.SchemaVersion),
			"size":           rec.Size,
			"deposit":        rec.Deposit,
			"data":           rec.Data,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("record")
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, addr uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&recordRow{}, "address = ?", addr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("record")
	}
	return nil
}

func (s *RecordStore) Balance(ctx context.Context, id models.Identity) (int64, error) {
	var row balanceRow
	err := s.db.WithContext(ctx).First(&row, "identity = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Funds, nil
}

func (s *RecordStore) Credit(ctx context.Context, id models.Identity, amount int64) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.Assignments(map[string]any{"funds": gorm.Expr("balances.funds + ?", amount)}),
	}).Create(&balanceRow{Identity: string(id), Funds: amount}).Error
}

func (s *RecordStore) Debit(ctx context.Context, id models.Identity, amount int64) error {
	res := s.db.WithContext(ctx).Model(&balanceRow{}).
		Where("identity = ? AND funds >= ?", string(id), amount).
		Update("funds", gorm.Expr("funds - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available, err := s.Balance(ctx, id)
		if err != nil {
			return err
		}
		return errs.NewInsufficientFunds(amount, available)
	}
	return nil
}

func (s *RecordStore) Atomically(ctx context.Context, fn func(tx ledger.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RecordStore{db: tx})
	})
}
