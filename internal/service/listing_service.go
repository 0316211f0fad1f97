package service

import (
	"context"
	"errors"
	"fmt"

	"stayhost/internal/model"
	"stayhost/internal/repository"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("forbidden: user does not own this listing")
)

// ListingService defines operations for listings
type ListingService interface {
	Create(ctx context.Context, ownerID string, fields model.ListingFields) (*model.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Listing, error)
	ListAll(ctx context.Context) ([]model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Update(ctx context.Context, id, callerID string, fields model.ListingFields) (*model.Listing, error)
}

type listingService struct {
	repo repository.ListingRepository
}

// NewListingService creates a new ListingService
func NewListingService(repo repository.ListingRepository) ListingService {
	return &listingService{repo: repo}
}

// Create stores a listing owned by ownerID
func (s *listingService) Create(ctx context.Context, ownerID string, fields model.ListingFields) (*model.Listing, error) {
	listing := &model.Listing{Owner: ownerID}
	fields.Apply(listing)

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing in repo: %w", err)
	}
	return listing, nil
}

func (s *listingService) ListByOwner(ctx context.Context, ownerID string) ([]model.Listing, error) {
	listings, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user listings from repo: %w", err)
	}
	return listings, nil
}

func (s *listingService) ListAll(ctx context.Context) ([]model.Listing, error) {
	listings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get listings from repo: %w", err)
	}
	return listings, nil
}

// GetByID returns nil without error when the listing does not exist
func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}
	return listing, nil
}

// Update replaces every mutable field. Only the owner may update.
func (s *listingService) Update(ctx context.Context, id, callerID string, fields model.ListingFields) (*model.Listing, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find listing for update: %w", err)
	}
	if existing == nil {
		return nil, ErrListingNotFound
	}
	if existing.Owner != callerID {
		return nil, ErrForbidden
	}

	fields.Apply(existing)

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrListingNotUpdated) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to update listing in repo: %w", err)
	}
	return existing, nil
}
