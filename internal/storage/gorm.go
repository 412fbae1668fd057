package storage

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one row of the key-value table.
type Record struct {
	Key   string `gorm:"primarykey;size:255" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// TableName sets the table name.
func (Record) TableName() string {
	return "kv_records"
}

type GormKV struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormKV(db *gorm.DB) (*GormKV, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&Record{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate kv_records table")
		return nil, err
	}

	logger.Info("Key-value storage initialized")

	return &GormKV{
		db:     db,
		logger: logger,
	}, nil
}

func (s *GormKV) Get(key string) (string, bool, error) {
	var record Record
	result := s.db.First(&record, "key = ?", key)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		s.logger.WithField("key", key).Debug("Record not found")
		return "", false, nil
	}

	if result.Error != nil {
		s.logger.WithError(result.Error).Error("Failed to read record")
		return "", false, result.Error
	}

	return record.Value, true, nil
}

func (s *GormKV) Set(key, value string) error {
	record := Record{Key: key, Value: value}

	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&record)

	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("key", key).Error("Failed to write record")
		return result.Error
	}

	return nil
}

func (s *GormKV) Remove(key string) error {
	result := s.db.Delete(&Record{}, "key = ?", key)

	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("key", key).Error("Failed to remove record")
		return result.Error
	}

	return nil
}

func (s *GormKV) Keys() ([]string, error) {
	var keys []string
	result := s.db.Model(&Record{}).Order("key ASC").Pluck("key", &keys)

	if result.Error != nil {
		s.logger.WithError(result.Error).Error("Failed to enumerate keys")
		return nil, result.Error
	}

	return keys, nil
}
