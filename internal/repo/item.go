package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/shareit/internal/domain"
)

// ItemRepo defines the item reads the booking core depends on, plus Create
// so the store can be seeded.
type ItemRepo interface {
	// Create inserts a new item and returns the persisted record.
	// Returns domain.ErrNotFound if the owner does not exist.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// GetByID retrieves a single item by its UUID primary key.
	// Returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error)

	// ExistsByOwner reports whether ownerID owns at least one item.
	ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error)
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

func (r *pgItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO items (owner_id, name, description, available)
		VALUES (@owner_id, @name, @description, @available)
		RETURNING id, owner_id, name, description, available, created_at`

	args := pgx.NamedArgs{
		"owner_id":    item.OwnerID,
		"name":        item.Name,
		"description": item.Description,
		"available":   item.Available,
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", translatePgError(err))
	}
	return result, nil
}

func (r *pgItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	const q = `
		SELECT id, owner_id, name, description, available, created_at
		FROM items
		WHERE id = @id`

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) ExistsByOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM items WHERE owner_id = @owner_id)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ItemRepo.ExistsByOwner: %w", err)
	}
	return exists, nil
}

func scanItem(s scanner) (domain.Item, error) {
	var (
		it        domain.Item
		id, owner pgtype.UUID
	)
	err := s.Scan(&id, &owner, &it.Name, &it.Description, &it.Available, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	it.OwnerID = uuid.UUID(owner.Bytes)
	return it, nil
}
