package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/focusflow"
)

const SelectAllCategories = "SELECT id, owner_id, name, color, created_at, updated_at FROM categories"

type categoryEntity struct {
	ID        string
	OwnerID   string
	Name      string
	Color     string
	CreatedAt int64
	UpdatedAt int64
}

type categoryRepo struct {
	dbGetter txStdLib.DBGetter
	l        log.Logger
}

func NewCategoryRepo(dbGetter txStdLib.DBGetter, logger log.Logger) *categoryRepo {
	return &categoryRepo{
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *categoryRepo) InsertCategory(ctx context.Context, category focusflow.CategoryRecord) (focusflow.ExistingCategoryRecord, error) {
	db := r.dbGetter(ctx)
	existingRecord := focusflow.ExistingCategoryRecord{
		CategoryRecord: category,
		ExistingRecord: focusflow.NewExistingRecord[focusflow.CategoryID](uuid.NewString()),
	}
	e := mapToCategoryEntity(existingRecord)

	args := []any{
		e.ID,
		e.OwnerID,
		e.Name,
		e.Color,
		e.CreatedAt,
		e.UpdatedAt,
	}
	query := "INSERT INTO categories (id, owner_id, name, color, created_at, updated_at) VALUES " + generateParameters(len(args))
	r.l.Debug("creating category", "query", query, "args", args)
	_, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingCategoryRecord{}, err
	}

	return existingRecord, nil
}

func (r *categoryRepo) UpdateCategory(ctx context.Context, id focusflow.CategoryID, c focusflow.CategoryRecord) (focusflow.ExistingCategoryRecord, error) {
	existing, err := r.GetCategory(ctx, id)
	if err != nil {
		return existing, err
	}

	existing.CategoryRecord = c
	existing.UpdatedAt = time.Now()
	e := mapToCategoryEntity(existing)

	query := "UPDATE categories SET owner_id = ?, name = ?, color = ?, updated_at = ? WHERE id = ?"
	args := []any{
		e.OwnerID,
		e.Name,
		e.Color,
		e.UpdatedAt,
		e.ID,
	}
	r.l.Debug("updating category", "query", query, "args", args)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return focusflow.ExistingCategoryRecord{}, err
	}

	return existing, nil
}

func (r *categoryRepo) DeleteCategory(ctx context.Context, id focusflow.CategoryID) (focusflow.ExistingCategoryRecord, error) {
	existing, err := r.GetCategory(ctx, id)
	if err != nil {
		return focusflow.ExistingCategoryRecord{}, err
	}

	db := r.dbGetter(ctx)
	query := "DELETE FROM categories WHERE id = ?"
	r.l.Debug("deleting category", "query", query, "id", id)
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return focusflow.ExistingCategoryRecord{}, err
	}

	return existing, nil
}

func (r *categoryRepo) GetCategory(ctx context.Context, id focusflow.CategoryID) (focusflow.ExistingCategoryRecord, error) {
	if id == "" {
		return focusflow.ExistingCategoryRecord{}, fmt.Errorf("provide id")
	}

	db := r.dbGetter(ctx)
	row := db.QueryRowContext(
		ctx,
		fmt.Sprintf("%s WHERE id=?", SelectAllCategories), id,
	)

	return extractCategory(row)
}

func (r *categoryRepo) GetCategoriesByOwner(ctx context.Context, ownerID focusflow.UserID) ([]focusflow.ExistingCategoryRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("provide ownerID")
	}

	db := r.dbGetter(ctx)
	query := fmt.Sprintf("%s WHERE owner_id=? ORDER BY name", SelectAllCategories)
	rows, err := db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var categories []focusflow.ExistingCategoryRecord
	for rows.Next() {
		category, err := extractCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func extractCategory(s Scannable) (focusflow.ExistingCategoryRecord, error) {
	var e categoryEntity
	if err := s.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Color, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return focusflow.ExistingCategoryRecord{}, focusflow.ErrNotFound
		}
		return focusflow.ExistingCategoryRecord{}, err
	}

	return mapToExistingCategoryRecord(e), nil
}

func mapToCategoryEntity(category focusflow.ExistingCategoryRecord) categoryEntity {
	return categoryEntity{
		ID:        string(category.ID),
		OwnerID:   string(category.OwnerID),
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt.UnixMilli(),
		UpdatedAt: category.UpdatedAt.UnixMilli(),
	}
}

func mapToExistingCategoryRecord(e categoryEntity) focusflow.ExistingCategoryRecord {
	return focusflow.ExistingCategoryRecord{
		ExistingRecord: focusflow.ExistingRecord[focusflow.CategoryID]{
			ID:        focusflow.CategoryID(e.ID),
			CreatedAt: time.UnixMilli(e.CreatedAt),
			UpdatedAt: time.UnixMilli(e.UpdatedAt),
		},
		CategoryRecord: focusflow.CategoryRecord{
			OwnerID: focusflow.UserID(e.OwnerID),
			Name:    e.Name,
			Color:   e.Color,
		},
	}
}
