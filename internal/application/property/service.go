package property

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/propertyhub/api/internal/domain"
	"github.com/propertyhub/api/internal/pkg/id"
	"github.com/propertyhub/api/internal/pkg/validate"
)

type Service interface {
	// List returns active listings matching the filters; all set predicates
	// AND together.
	List(ctx context.Context, filters domain.PropertyFilters) ([]domain.Property, error)
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
	Create(ctx context.Context, ownerID string, req domain.CreatePropertyRequest) (*domain.Property, error)
}

type propertyStore interface {
	Put(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListActive(ctx context.Context) ([]domain.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

type service struct {
	repo propertyStore
}

func NewService(repo propertyStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filters domain.PropertyFilters) ([]domain.Property, error) {
	props, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	// The store hands back every active listing and the predicates run here.
	// The catalogue is a few thousand items at most; pushing substring and
	// IN-list matching into DynamoDB filter expressions would complicate the
	// query layer without changing the read cost of the scan.
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		if matches(&p, &filters) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.repo.Get(ctx, propertyID)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreatePropertyRequest) (*domain.Property, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	p := &domain.Property{
		PropertyID:    id.New(),
		Slug:          Slugify(req.Title),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		AreaSqm:       req.AreaSqm,
		PropertyType:  req.PropertyType,
		ListingType:   req.ListingType,
		Address:       req.Address,
		City:          req.City,
		District:      req.District,
		ZipCode:       req.ZipCode,
		YearBuilt:     req.YearBuilt,
		ParkingSpaces: req.ParkingSpaces,
		Features:      req.Features,
		Images:        req.Images,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Status:        domain.PropertyStatusActive,
		OwnerID:       ownerID,
		ListedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func matches(p *domain.Property, f *domain.PropertyFilters) bool {
	if f.ListingType != "" && p.ListingType != f.ListingType {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if len(f.Bedrooms) > 0 && !containsInt(f.Bedrooms, p.Bedrooms) {
		return false
	}
	if len(f.Bathrooms) > 0 && !containsFloat(f.Bathrooms, p.Bathrooms) {
		return false
	}
	if len(f.PropertyTypes) > 0 && !containsStr(f.PropertyTypes, p.PropertyType) {
		return false
	}
	if f.Location != "" {
		loc := strings.ToLower(f.Location)
		if !anyContains(loc, p.City, p.Address, p.District, p.ZipCode) {
			return false
		}
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !anyContains(q, p.Title, p.Description, p.City, p.Address) {
			return false
		}
	}
	return true
}

func anyContains(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsFloat(xs []float64, x float64) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsStr(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
var whitespace = regexp.MustCompile(`\s+`)
var dashes = regexp.MustCompile(`-+`)

// Slugify builds a URL-safe slug from a listing title with a ULID suffix to
// keep slugs unique across identical titles.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	suffix := strings.ToLower(id.New())
	if s == "" {
		return suffix
	}
	return s + "-" + suffix
}
