package model

import "time"

// DocumentModel mirrors the 'documents' table, one JSON document per (namespace, key).
type DocumentModel struct {
	Namespace string `gorm:"type:varchar(100);primaryKey"`
	Key       string `gorm:"type:varchar(100);primaryKey;index"`
	Value     []byte `gorm:"type:bytea;not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DocumentModel) TableName() string {
	return "documents"
}
