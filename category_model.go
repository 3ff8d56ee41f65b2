package focusflow

import "context"

type CategoryRecord struct {
	OwnerID UserID
	Name    string
	Color   string // hex, e.g. "#ff8800"
}

type ExistingCategoryRecord struct {
	ExistingRecord[CategoryID]
	CategoryRecord
}

type CategoryRepo interface {
	InsertCategory(context.Context, CategoryRecord) (ExistingCategoryRecord, error)
	UpdateCategory(ctx context.Context, id CategoryID, r CategoryRecord) (ExistingCategoryRecord, error)
	DeleteCategory(ctx context.Context, id CategoryID) (ExistingCategoryRecord, error)
	GetCategory(ctx context.Context, id CategoryID) (ExistingCategoryRecord, error)
	GetCategoriesByOwner(ctx context.Context, ownerID UserID) ([]ExistingCategoryRecord, error)
}
