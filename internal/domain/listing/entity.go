package listing

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Listing struct {
	id          uuid.UUID
	hostID      uuid.UUID
	title       string
	description string
	location    string
	price       Price
	images      []string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

type Details struct {
	Title       string
	Description string
	Location    string
}

func (d Details) normalized() (Details, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	if d.Title == "" || len(d.Title) > maxTitleLength {
		return Details{}, ErrInvalidTitle
	}
	if d.Description == "" || d.Location == "" {
		return Details{}, ErrInvalidText
	}
	return d, nil
}

func NewListing(hostID uuid.UUID, details Details, price Price, images []string, now time.Time) (*Listing, error) {
	details, err := details.normalized()
	if err != nil {
		return nil, err
	}
	if price.Cents() <= 0 {
		return nil, ErrInvalidPrice
	}
	if len(images) > MaxImages {
		return nil, ErrTooManyImages
	}

	return &Listing{
		id:          uuid.New(),
		hostID:      hostID,
		title:       details.Title,
		description: details.Description,
		location:    details.Location,
		price:       price,
		images:      slices.Clone(images),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructListing(id, hostID uuid.UUID, details Details, price Price, images []string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Listing {
	return &Listing{
		id:          id,
		hostID:      hostID,
		title:       details.Title,
		description: details.Description,
		location:    details.Location,
		price:       price,
		images:      slices.Clone(images),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		deletedAt:   deletedAt,
	}
}

func (l *Listing) ID() uuid.UUID         { return l.id }
func (l *Listing) HostID() uuid.UUID     { return l.hostID }
func (l *Listing) Title() string         { return l.title }
func (l *Listing) Description() string   { return l.description }
func (l *Listing) Location() string      { return l.location }
func (l *Listing) Price() Price          { return l.price }
func (l *Listing) Images() []string      { return slices.Clone(l.images) }
func (l *Listing) CreatedAt() time.Time  { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time  { return l.updatedAt }
func (l *Listing) DeletedAt() *time.Time { return l.deletedAt }
func (l *Listing) IsDeleted() bool       { return l.deletedAt != nil }

func (l *Listing) EnsureOwnedBy(actorID uuid.UUID) error {
	if l.hostID != actorID {
		return ErrNotOwnedByActor
	}
	return nil
}

// Revise replaces details and price, drops the images listed in remove and appends added.
// It returns the image URLs that were dropped.
func (l *Listing) Revise(details Details, price Price, remove, added []string, now time.Time) ([]string, error) {
	details, err := details.normalized()
	if err != nil {
		return nil, err
	}
	if price.Cents() <= 0 {
		return nil, ErrInvalidPrice
	}

	kept := make([]string, 0, len(l.images)+len(added))
	var dropped []string
	for _, img := range l.images {
		if slices.Contains(remove, img) {
			dropped = append(dropped, img)
			continue
		}
		kept = append(kept, img)
	}
	kept = append(kept, added...)
	if len(kept) > MaxImages {
		return nil, ErrTooManyImages
	}

	l.title = details.Title
	l.description = details.Description
	l.location = details.Location
	l.price = price
	l.images = kept
	l.updatedAt = now
	return dropped, nil
}

func (l *Listing) MarkDeleted(now time.Time) {
	l.deletedAt = &now
	l.updatedAt = now
}
