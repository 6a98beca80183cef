package repository

import (
	"context"
	"database/sql"
)

// ItemRepo handles items.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// Insert stores a new row and returns it with the id sqlite assigned.
func (r *ItemRepo) Insert(ctx context.Context, name string) (Item, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO items(name) VALUES (?)`, name)
	if err != nil {
		return Item{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, err
	}
	return Item{ID: id, Name: name}, nil
}

// Delete removes the row with it.ID. A missing row is not an error.
func (r *ItemRepo) Delete(ctx context.Context, it Item) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, it.ID)
	return err
}

func (r *ItemRepo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
