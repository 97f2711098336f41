// Package migration runs registered schema migrations in order, tracking
// applied migrations in a `migrations` table with batch numbers so a batch
// can be rolled back as a unit.
package migration

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// Migration is a named, reversible schema change.
type Migration struct {
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

// record is a row in the migrations bookkeeping table.
type record struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255"`
	Batch     int
	AppliedAt time.Time
}

func (record) TableName() string { return "migrations" }

var registry []Migration

// Register adds a migration. Call order defines run order.
func Register(m Migration) {
	registry = append(registry, m)
}

// All returns the registered migrations in registration order.
func All() []Migration {
	return registry
}

// Run applies every pending migration as a single new batch.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: bookkeeping table: %w", err)
	}

	applied, err := appliedNames(db)
	if err != nil {
		return err
	}

	var maxBatch int
	db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&maxBatch)
	batch := maxBatch + 1

	ran := 0
	for _, m := range registry {
		if _, ok := applied[m.Name]; ok {
			continue
		}
		if err := m.Up(db); err != nil {
			return fmt.Errorf("migration: %s: %w", m.Name, err)
		}
		if err := db.Create(&record{Name: m.Name, Batch: batch, AppliedAt: time.Now()}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", m.Name, err)
		}
		slog.Info("migrated", "name", m.Name, "batch", batch)
		ran++
	}
	if ran == 0 {
		slog.Info("nothing to migrate")
	}
	return nil
}

// Rollback reverses the most recent batch.
func Rollback(db *gorm.DB) error {
	var maxBatch int
	db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&maxBatch)
	if maxBatch == 0 {
		slog.Info("nothing to rollback")
		return nil
	}

	var recs []record
	if err := db.Where("batch = ?", maxBatch).Order("id DESC").Find(&recs).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, m := range registry {
		byName[m.Name] = m
	}

	for _, rec := range recs {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration: %s not registered, cannot rollback", rec.Name)
		}
		if err := m.Down(db); err != nil {
			return fmt.Errorf("migration: rollback %s: %w", rec.Name, err)
		}
		if err := db.Delete(&record{}, rec.ID).Error; err != nil {
			return err
		}
		slog.Info("rolled back", "name", rec.Name, "batch", rec.Batch)
	}
	return nil
}

// Status returns each registered migration with its applied batch (0 when
// pending).
func Status(db *gorm.DB) ([]struct {
	Name  string
	Batch int
}, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	var recs []record
	if err := db.Find(&recs).Error; err != nil {
		return nil, err
	}
	batches := make(map[string]int, len(recs))
	for _, r := range recs {
		batches[r.Name] = r.Batch
	}

	out := make([]struct {
		Name  string
		Batch int
	}, 0, len(registry))
	for _, m := range registry {
		out = append(out, struct {
			Name  string
			Batch int
		}{Name: m.Name, Batch: batches[m.Name]})
	}
	return out, nil
}

func appliedNames(db *gorm.DB) (map[string]struct{}, error) {
	var recs []record
	if err := db.Find(&recs).Error; err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		names[r.Name] = struct{}{}
	}
	return names, nil
}
