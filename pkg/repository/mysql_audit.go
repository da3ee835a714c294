package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OrderAuditRecord is one lifecycle event row.
type OrderAuditRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID    string    `gorm:"type:varchar(64);not null;index"`
	CustomerID string    `gorm:"type:varchar(64);index"`
	VendorIDs  string    `gorm:"type:text"`
	Action     string    `gorm:"type:varchar(64);not null"`
	Status     int       `gorm:"not null"`
	Decision   string    `gorm:"type:varchar(20)"`
	Note       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

func (OrderAuditRecord) TableName() string {
	return "order_audit"
}

// MySQLAuditSink records order lifecycle events in MySQL.
type MySQLAuditSink struct {
	db *gorm.DB
}

func NewMySQLAuditSink(cfg *config.MySQLConfig) (*MySQLAuditSink, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	// Auto migrate
	if err := db.AutoMigrate(&OrderAuditRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &MySQLAuditSink{db: db}, nil
}

func (s *MySQLAuditSink) Publish(ctx context.Context, ev models.OrderEvent) error {
	return s.db.WithContext(ctx).Create(auditRecord(ev)).Error
}

func (s *MySQLAuditSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func auditRecord(ev models.OrderEvent) *OrderAuditRecord {
	return &OrderAuditRecord{
		OrderID:    ev.OrderID,
		CustomerID: ev.CustomerID,
		VendorIDs:  strings.Join(ev.VendorIDs, ","),
		Action:     string(ev.Type),
		Status:     int(ev.Status),
		Decision:   string(ev.Decision),
		Note:       ev.Note,
		CreatedAt:  ev.At,
	}
}
