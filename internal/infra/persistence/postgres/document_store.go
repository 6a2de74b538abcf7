package postgres

import (
	"context"
	"time"

	"portal/internal/domain/repository"
	"portal/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentStore struct {
	db *gorm.DB
}

// NewDocumentStore stores documents in the 'documents' table.
func NewDocumentStore(db *gorm.DB) repository.DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var doc model.DocumentModel
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get document")
	}

	return doc.Value, nil
}

func (s *documentStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	doc := model.DocumentModel{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error

	return errors.Wrap(err, "failed to upsert document")
}

func (s *documentStore) Delete(ctx context.Context, namespace, key string) error {
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", namespace, key).
		Delete(&model.DocumentModel{}).Error

	return errors.Wrap(err, "failed to delete document")
}

func (s *documentStore) Namespaces(ctx context.Context, key string) ([]string, error) {
	var namespaces []string
	err := s.db.WithContext(ctx).
		Model(&model.DocumentModel{}).
		Where("key = ?", key).
		Order("namespace").
		Pluck("namespace", &namespaces).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list namespaces")
	}

	return namespaces, nil
}
