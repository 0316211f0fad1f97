package repository

import (
	"context"
	"errors"
	"fmt"

	"stayhost/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrListingNotUpdated is returned when no row matched the id/owner pair
var ErrListingNotUpdated = errors.New("listing not found or not owned by user for update")

// ListingRepository defines operations for listing data
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.Listing, error)
	FindAll(ctx context.Context) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
}

type listingRepository struct {
	db DBTX
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db DBTX) ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, owner_id, title, selected_option, address, photos, description, perks,
            extra_info, check_in, check_out, max_guests, price, created_at, updated_at`

// Create inserts a new listing
func (r *listingRepository) Create(ctx context.Context, l *model.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	sql := `INSERT INTO listings (id, owner_id, title, selected_option, address, photos, description, perks,
            extra_info, check_in, check_out, max_guests, price)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		l.ID, l.Owner, l.Title, l.SelectedOption, l.Address, l.Photos, l.Description, l.Perks,
		l.ExtraInfo, l.CheckIn, l.CheckOut, l.MaxGuests, l.Price,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by id, nil when absent or not a UUID
func (r *listingRepository) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	sql := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l, err := scanListing(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return l, nil
}

// FindByOwner retrieves the listings of one owner in insertion order
func (r *listingRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	if uuid.Validate(ownerID) != nil {
		return []model.Listing{}, nil
	}
	sql := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at, id`
	return r.query(ctx, sql, ownerID)
}

// FindAll retrieves every listing
func (r *listingRepository) FindAll(ctx context.Context) ([]model.Listing, error) {
	sql := `SELECT ` + listingColumns + ` FROM listings ORDER BY created_at, id`
	return r.query(ctx, sql)
}

// Update overwrites the mutable fields of a listing owned by l.Owner
func (r *listingRepository) Update(ctx context.Context, l *model.Listing) error {
	sql := `UPDATE listings
            SET title = $1, selected_option = $2, address = $3, photos = $4, description = $5, perks = $6,
                extra_info = $7, check_in = $8, check_out = $9, max_guests = $10, price = $11, updated_at = NOW()
            WHERE id = $12 AND owner_id = $13 RETURNING updated_at` // ensure owner matches
	err := r.db.QueryRow(ctx, sql,
		l.Title, l.SelectedOption, l.Address, l.Photos, l.Description, l.Perks,
		l.ExtraInfo, l.CheckIn, l.CheckOut, l.MaxGuests, l.Price, l.ID, l.Owner,
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrListingNotUpdated
		}
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

func (r *listingRepository) query(ctx context.Context, sql string, args ...any) ([]model.Listing, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	l := &model.Listing{}
	err := row.Scan(
		&l.ID, &l.Owner, &l.Title, &l.SelectedOption, &l.Address, &l.Photos, &l.Description, &l.Perks,
		&l.ExtraInfo, &l.CheckIn, &l.CheckOut, &l.MaxGuests, &l.Price, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if l.Photos == nil {
		l.Photos = []string{}
	}
	if l.Perks == nil {
		l.Perks = []string{}
	}
	return l, nil
}
