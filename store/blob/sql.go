package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// KVBlob is one slot of the SQL-backed store.
type KVBlob struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"type:longblob"`
	UpdatedAt time.Time
}

func (KVBlob) TableName() string { return "kv_blobs" }

type SQL struct{ db *gorm.DB }

// OpenSQL connects with the named driver ("sqlite" or "mysql") and migrates
// the kv_blobs table. For sqlite the dsn is a file path; the pure-Go driver is
// used so no cgo toolchain is needed.
func OpenSQL(driver, dsn string) (*SQL, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("blob: unsupported sql driver %q", driver)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := gdb.AutoMigrate(&KVBlob{}); err != nil {
		return nil, fmt.Errorf("migrate kv_blobs: %w", err)
	}
	return NewSQL(gdb), nil
}

func NewSQL(db *gorm.DB) *SQL { return &SQL{db: db} }

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var row KVBlob
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return row.Value, nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte) error {
	row := KVBlob{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&KVBlob{}).Error; err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
