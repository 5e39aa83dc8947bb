package infrastructure

import (
	"fmt"

	"github.com/yourusername/trackpull-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteTransferRepository implements TransferRepository using SQLite
type SQLiteTransferRepository struct {
	db *gorm.DB
}

// NewSQLiteTransferRepository creates a new SQLite repository
func NewSQLiteTransferRepository(dbPath string) (*SQLiteTransferRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Transfer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteTransferRepository{db: db}, nil
}

// Create creates a new transfer record
func (r *SQLiteTransferRepository) Create(transfer *domain.Transfer) error {
	return r.db.Create(transfer).Error
}

// Update updates an existing transfer record
func (r *SQLiteTransferRepository) Update(transfer *domain.Transfer) error {
	return r.db.Save(transfer).Error
}

// FindByID finds a transfer by ID
func (r *SQLiteTransferRepository) FindByID(id string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.First(&transfer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// FindByPhase finds transfers by phase
func (r *SQLiteTransferRepository) FindByPhase(phase domain.Phase) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	err := r.db.Where("phase = ?", phase).Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}

// FindAll finds all transfers, newest first
func (r *SQLiteTransferRepository) FindAll() ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	err := r.db.Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}

// Count returns the total number of transfers
func (r *SQLiteTransferRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Transfer{}).Count(&count).Error
	return count, err
}

// GetStats returns transfer statistics
func (r *SQLiteTransferRepository) GetStats() (*domain.TransferStats, error) {
	stats := &domain.TransferStats{}

	if err := r.db.Model(&domain.Transfer{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	phaseCounts := []struct {
		Phase domain.Phase
		Count int64
	}{}

	if err := r.db.Model(&domain.Transfer{}).
		Select("phase, count(*) as count").
		Group("phase").
		Scan(&phaseCounts).Error; err != nil {
		return nil, err
	}

	for _, pc := range phaseCounts {
		switch pc.Phase {
		case domain.PhaseInFlight:
			stats.InFlight = pc.Count
		case domain.PhaseSucceeded:
			stats.Succeeded = pc.Count
		case domain.PhaseFailed:
			stats.Failed = pc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteTransferRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
