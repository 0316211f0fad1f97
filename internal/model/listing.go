package model

import "time"

// Listing represents a rental place offered by its owner
type Listing struct {
	ID             string    `json:"_id"`
	Owner          string    `json:"owner"`
	Title          string    `json:"title"`
	SelectedOption string    `json:"selectedOption"`
	Address        string    `json:"address"`
	Photos         []string  `json:"photos"`
	Description    string    `json:"description"`
	Perks          []string  `json:"perks"`
	ExtraInfo      string    `json:"extraInfo"`
	CheckIn        string    `json:"checkIn"`
	CheckOut       string    `json:"checkOut"`
	MaxGuests      int       `json:"maxGuests"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListingFields carries every mutable field of a listing.
// Photos arrive as "addedPhotos" from the client.
type ListingFields struct {
	Title          string   `json:"title"`
	SelectedOption string   `json:"selectedOption"`
	Address        string   `json:"address"`
	AddedPhotos    []string `json:"addedPhotos"`
	Description    string   `json:"description"`
	Perks          []string `json:"perks"`
	ExtraInfo      string   `json:"extraInfo"`
	CheckIn        string   `json:"checkIn"`
	CheckOut       string   `json:"checkOut"`
	MaxGuests      int      `json:"maxGuests"`
	Price          float64  `json:"price"`
}

// UpdateListingRequest is the body of PUT /places
type UpdateListingRequest struct {
	ID string `json:"id" binding:"required"`
	ListingFields
}

// Apply overwrites every mutable field of l. Omitted fields become empty.
func (f ListingFields) Apply(l *Listing) {
	l.Title = f.Title
	l.SelectedOption = f.SelectedOption
	l.Address = f.Address
	l.Photos = nonNil(f.AddedPhotos)
	l.Description = f.Description
	l.Perks = nonNil(f.Perks)
	l.ExtraInfo = f.ExtraInfo
	l.CheckIn = f.CheckIn
	l.CheckOut = f.CheckOut
	l.MaxGuests = f.MaxGuests
	l.Price = f.Price
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
