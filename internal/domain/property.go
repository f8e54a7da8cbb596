package domain

import "time"

// Property types and listing types accepted by the API.
const (
	PropertyTypeHouse     = "house"
	PropertyTypeApartment = "apartment"
	PropertyTypeCondo     = "condo"
	PropertyTypeTownhouse = "townhouse"

	ListingTypeSale = "sale"
	ListingTypeRent = "rent"

	PropertyStatusActive = "active"
	PropertyStatusSold   = "sold"
	PropertyStatusHidden = "hidden"
)

type Property struct {
	PropertyID    string     `json:"id" dynamodbav:"property_id"`
	Slug          string     `json:"slug" dynamodbav:"slug"`
	Title         string     `json:"title" dynamodbav:"title"`
	Description   string     `json:"description" dynamodbav:"description"`
	Price         int64      `json:"price" dynamodbav:"price"`
	Bedrooms      int        `json:"bedrooms" dynamodbav:"bedrooms"`
	Bathrooms     float64    `json:"bathrooms" dynamodbav:"bathrooms"`
	AreaSqm       int        `json:"area_sqm" dynamodbav:"area_sqm"`
	PropertyType  string     `json:"property_type" dynamodbav:"property_type"`
	ListingType   string     `json:"listing_type" dynamodbav:"listing_type"`
	Address       string     `json:"address" dynamodbav:"address"`
	City          string     `json:"city" dynamodbav:"city"`
	District      string     `json:"district" dynamodbav:"district"`
	ZipCode       string     `json:"zip_code" dynamodbav:"zip_code"`
	YearBuilt     *int       `json:"year_built,omitempty" dynamodbav:"year_built"`
	ParkingSpaces *int       `json:"parking_spaces,omitempty" dynamodbav:"parking_spaces"`
	Features      []string   `json:"features" dynamodbav:"features"`
	Images        []string   `json:"images" dynamodbav:"images"` // CDN URLs in display order
	Latitude      *float64   `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude     *float64   `json:"longitude,omitempty" dynamodbav:"longitude"`
	Status        string     `json:"status" dynamodbav:"status"`
	OwnerID       string     `json:"owner_id" dynamodbav:"owner_id"`
	ListedAt      time.Time  `json:"listed_date" dynamodbav:"listed_at"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreatePropertyRequest struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Price         int64    `json:"price" validate:"required,gt=0"`
	Bedrooms      int      `json:"bedrooms" validate:"required,gte=0"`
	Bathrooms     float64  `json:"bathrooms" validate:"required,gte=0"`
	AreaSqm       int      `json:"area_sqm" validate:"required,gt=0"`
	PropertyType  string   `json:"property_type" validate:"required,oneof=house apartment condo townhouse"`
	ListingType   string   `json:"listing_type" validate:"required,oneof=sale rent"`
	Address       string   `json:"address" validate:"required"`
	City          string   `json:"city" validate:"required"`
	District      string   `json:"district" validate:"required"`
	ZipCode       string   `json:"zip_code" validate:"required"`
	YearBuilt     *int     `json:"year_built"`
	ParkingSpaces *int     `json:"parking_spaces"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// PropertyFilters holds search predicates. Zero values mean "no constraint";
// all set predicates AND together.
type PropertyFilters struct {
	ListingType   string
	MinPrice      int64
	MaxPrice      int64
	Bedrooms      []int
	Bathrooms     []float64
	PropertyTypes []string
	Location      string
	Search        string
}
