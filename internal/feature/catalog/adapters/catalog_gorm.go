// Package adapters はcatalogフィーチャーのドキュメントストア実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gadget_backend/internal/feature/catalog/domain/entity"
	"gadget_backend/internal/feature/catalog/usecase"
)

// catalogGorm はCatalogRepositoryインターフェースのGORM実装です（PostgreSQL / SQLite）。
// 全コレクションを1つのdocumentsテーブルに格納し、本文はJSONで保持します。
type catalogGorm struct {
	db *gorm.DB
}

// catalogGormがCatalogRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.CatalogRepository = (*catalogGorm)(nil)

// NewCatalogGorm は指定されたgorm.DB接続でcatalogGormの新しいインスタンスを生成します。
func NewCatalogGorm(db *gorm.DB) *catalogGorm {
	return &catalogGorm{db: db}
}

// Insert はドキュメントを保存します。文字列の"_id"があればそれを主キーに使い、なければUUIDを採番します。
// 文字列以外の"_id"は本文にそのまま残します。
func (r *catalogGorm) Insert(ctx context.Context, collection string, doc entity.Document) error {
	id, ok := doc.StringField(entity.FieldID)
	if !ok || id == "" {
		id = uuid.NewString()
	}
	m, err := DocumentModelFromEntity(collection, id, doc)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

// Find はフィルタに一致するドキュメントを挿入順で返します。
// 抽出カラムを持つフィールドはSQLで、それ以外は取得後にメモリ上で絞り込みます。
func (r *catalogGorm) Find(ctx context.Context, collection string, filter entity.Filter) ([]entity.Document, error) {
	var rows []DocumentModel
	if err := r.query(ctx, collection, filter).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs := make([]entity.Document, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].ToEntity()
		if err != nil {
			return nil, err
		}
		if filter.Matches(doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// FindOne はフィルタに一致する最初のドキュメントを返します。
// 一致しない場合、usecase.ErrNotFoundを返します。
func (r *catalogGorm) FindOne(ctx context.Context, collection string, filter entity.Filter) (entity.Document, error) {
	if !hasResidual(filter) {
		var m DocumentModel
		err := r.query(ctx, collection, filter).Order("created_at ASC").First(&m).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, usecase.ErrNotFound
			}
			return nil, fmt.Errorf("failed to query %s: %w", collection, err)
		}
		return m.ToEntity()
	}

	docs, err := r.Find(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, usecase.ErrNotFound
	}
	return docs[0], nil
}

func (r *catalogGorm) query(ctx context.Context, collection string, filter entity.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&DocumentModel{}).Where("collection = ?", collection)
	for field, want := range filter {
		switch {
		case field == entity.FieldID:
			q = q.Where("id = ?", want)
		case filterColumns[field] != "":
			q = q.Where(filterColumns[field]+" = ?", want)
		}
	}
	return q
}

// hasResidual reports whether filter names a field without its own column.
func hasResidual(filter entity.Filter) bool {
	for field := range filter {
		if field != entity.FieldID && filterColumns[field] == "" {
			return true
		}
	}
	return false
}
