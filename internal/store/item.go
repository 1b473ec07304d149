// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"recipepress/internal/models"
)

// ItemStore manages items in the database.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore returns a new ItemStore.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = `id, name, summary, image_key, thumb_key, content,
	published_at, slug, category_id, views, created_at, updated_at`

// scanItem scans a row into an Item struct.
func scanItem(scanner interface{ Scan(...any) error }) (*models.Item, error) {
	var i models.Item
	err := scanner.Scan(
		&i.ID, &i.Name, &i.Summary, &i.ImageKey, &i.ThumbKey, &i.Content,
		&i.PublishedAt, &i.Slug, &i.CategoryID, &i.Views,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// List returns all items, newest first.
func (s *ItemStore) List() ([]models.Item, error) {
	rows, err := s.db.Query(`
		SELECT ` + itemColumns + ` FROM items
		ORDER BY published_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByCategory returns a category's items, newest first.
func (s *ItemStore) ListByCategory(categoryID int64) ([]models.Item, error) {
	rows, err := s.db.Query(`
		SELECT `+itemColumns+` FROM items
		WHERE category_id = $1
		ORDER BY published_at DESC, id DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list items by category: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// FindByID retrieves an item by ID. Returns nil if not found.
func (s *ItemStore) FindByID(id int64) (*models.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return i, nil
}

// FindBySlug retrieves an item by its category and item slugs, the pair
// that forms the public path. Returns nil if not found.
func (s *ItemStore) FindBySlug(categorySlug, itemSlug string) (*models.Item, error) {
	row := s.db.QueryRow(`
		SELECT i.id, i.name, i.summary, i.image_key, i.thumb_key, i.content,
		       i.published_at, i.slug, i.category_id, i.views,
		       i.created_at, i.updated_at
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE c.slug = $1 AND i.slug = $2
	`, categorySlug, itemSlug)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by slug: %w", err)
	}
	return i, nil
}

// Create inserts a new item and returns it.
func (s *ItemStore) Create(i *models.Item) (*models.Item, error) {
	row := s.db.QueryRow(`
		INSERT INTO items (name, summary, image_key, thumb_key, content,
			published_at, slug, category_id, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+itemColumns,
		i.Name, i.Summary, i.ImageKey, i.ThumbKey, i.Content,
		i.PublishedAt, i.Slug, i.CategoryID, i.Views,
	)
	result, err := scanItem(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrItemExists
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	return result, nil
}

// Update modifies an existing item, views included: the view counter
// only moves through the regular save path.
func (s *ItemStore) Update(i *models.Item) error {
	_, err := s.db.Exec(`
		UPDATE items SET
			name = $1, summary = $2, image_key = $3, thumb_key = $4,
			content = $5, published_at = $6, slug = $7, category_id = $8,
			views = $9, updated_at = NOW()
		WHERE id = $10
	`, i.Name, i.Summary, i.ImageKey, i.ThumbKey, i.Content,
		i.PublishedAt, i.Slug, i.CategoryID, i.Views, i.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrItemExists
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete removes an item by ID.
func (s *ItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// CountByCategory returns the number of items in a category.
func (s *ItemStore) CountByCategory(categoryID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items by category: %w", err)
	}
	return count, nil
}
