package document

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateDocument(ctx context.Context, d *Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *Repo) GetByDocumentID(ctx context.Context, documentID string) (*Document, error) {
	var d Document
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocuments returns documents newest first.
func (r *Repo) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var docs []Document
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Repo) DeleteDocument(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&Document{}).Error
}

// Job CRUD
func (r *Repo) CreateJob(ctx context.Context, job *IngestJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*IngestJob, error) {
	var j IngestJob
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&IngestJob{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": JobSucceeded,
			"error":  nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&IngestJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": JobFailed,
			"error":  errMsg,
		}).Error
}
