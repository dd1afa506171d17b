package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"gadget_backend/internal/feature/catalog/domain/entity"
)

// DocumentModel is the GORM model for the documents table.
// The filterable fields are copied into their own columns when the client sent them as strings;
// any other value leaves the column NULL so it never matches a string filter.
// ID is either a generated UUID or the client's own string "_id", which has no length limit.
type DocumentModel struct {
	ID         string  `gorm:"primaryKey;type:text"`
	Collection string  `gorm:"size:64;not null;index:idx_documents_collection"`
	ProductID  *string `gorm:"size:255;index"`
	Ratings    *string `gorm:"size:64"`
	FlashSale  *string `gorm:"size:16"`
	Body       string  `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM.
func (DocumentModel) TableName() string {
	return "documents"
}

// filterColumns maps document fields to their extracted column.
var filterColumns = map[string]string{
	entity.FieldProductID: "product_id",
	entity.FieldRatings:   "ratings",
	entity.FieldFlashSale: "flash_sale",
}

// DocumentModelFromEntity builds the row for doc. A string "_id" is the primary key and is kept out
// of the body; any other "_id" value stays in the body untouched.
func DocumentModelFromEntity(collection, id string, doc entity.Document) (*DocumentModel, error) {
	_, idIsKey := doc.StringField(entity.FieldID)
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == entity.FieldID && idIsKey {
			continue
		}
		body[k] = v
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return &DocumentModel{
		ID:         id,
		Collection: collection,
		ProductID:  stringColumn(doc, entity.FieldProductID),
		Ratings:    stringColumn(doc, entity.FieldRatings),
		FlashSale:  stringColumn(doc, entity.FieldFlashSale),
		Body:       string(raw),
	}, nil
}

// ToEntity decodes the stored body and restores "_id" unless the body carries its own.
func (m *DocumentModel) ToEntity() (entity.Document, error) {
	doc := entity.Document{}
	if err := json.Unmarshal([]byte(m.Body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", m.ID, err)
	}
	if _, ok := doc[entity.FieldID]; !ok {
		doc[entity.FieldID] = m.ID
	}
	return doc, nil
}

func stringColumn(doc entity.Document, field string) *string {
	s, ok := doc.StringField(field)
	if !ok {
		return nil
	}
	return &s
}
