package queue

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// FailedJob is a job that exhausted its retry attempts, kept for manual
// inspection and replay.
type FailedJob struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	JobID    string `gorm:"size:64;index" json:"job_id"`
	Name     string `gorm:"size:128;index" json:"name"`
	Payload  string `gorm:"type:text" json:"payload"`
	Error    string `gorm:"type:text" json:"error"`
	Attempts int    `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

func (FailedJob) TableName() string { return "failed_jobs" }

// DBFailedStore persists exhausted jobs to the database.
type DBFailedStore struct {
	db *gorm.DB
}

func NewDBFailedStore(db *gorm.DB) *DBFailedStore {
	return &DBFailedStore{db: db}
}

func (s *DBFailedStore) Record(ctx context.Context, job Job, jobErr error) error {
	rec := FailedJob{
		JobID:    job.ID,
		Name:     job.Name,
		Payload:  string(job.Payload),
		Error:    jobErr.Error(),
		Attempts: job.Attempts,
		FailedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}
