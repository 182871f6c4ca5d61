package services

import (
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// filterAll is the sentinel meaning "do not filter on this field".
	filterAll = "all"

	defaultPage  = 1
	defaultLimit = 12

	placeholderImage = "https://via.placeholder.com/640x480.png?text=Property"
)

// SearchParams are the public search inputs after query-string parsing.
type SearchParams struct {
	Page      int
	Limit     int
	Location  string
	Type      string
	BHK       string
	Status    string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string
	SortBy    string
	SortOrder string
}

// searchFilter composes the public search query. Visibility flags are
// always enforced; every other clause is conjunctive and optional.
func searchFilter(p SearchParams) bson.M {
	filter := bson.M{
		"isApproved": true,
		"isActive":   true,
	}

	if p.Location != "" {
		filter["location"] = bson.M{"$regex": p.Location, "$options": "i"}
	}
	if p.Type != "" && p.Type != filterAll {
		filter["type"] = p.Type
	}
	if p.BHK != "" && p.BHK != filterAll {
		filter["bhk"] = p.BHK
	}
	if p.Status != "" {
		filter["status"] = p.Status
	}

	price := bson.M{}
	if p.MinPrice != nil {
		price["$gte"] = *p.MinPrice
	}
	if p.MaxPrice != nil {
		price["$lte"] = *p.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if p.Search != "" {
		filter["$text"] = bson.M{"$search": p.Search}
	}
	return filter
}

// sortableFields whitelists the sort keys a caller may request.
var sortableFields = map[string]string{
	"createdAt": "createdAt",
	"price":     "price",
	"views":     "views",
}

// searchSort maps the requested sort to a Mongo sort document, defaulting
// to newest first.
func searchSort(sortBy, sortOrder string) bson.D {
	field, ok := sortableFields[sortBy]
	if !ok {
		field = "createdAt"
	}
	order := -1
	if sortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// Pagination is the page metadata returned alongside search results.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// paginate computes page metadata for a total match count.
func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// normalizeImages substitutes the placeholder when a listing is created
// without any image URLs.
func normalizeImages(images []string) []string {
	if len(images) == 0 {
		return []string{placeholderImage}
	}
	return images
}

// UpdateInput carries the admin update fields; nil means leave unchanged.
// IsApproved is accepted from the payload but always overridden: every
// update re-publishes the listing.
type UpdateInput struct {
	Title       *string
	Description *string
	Type        *string
	BHK         *string
	Location    *string
	Price       *float64
	Status      *string
	Images      *[]string
	IsActive    *bool
	IsApproved  *bool
}

// updateDocument builds the $set document for an admin update, forcing
// isApproved back to true regardless of the payload.
func updateDocument(in UpdateInput) bson.M {
	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.BHK != nil {
		set["bhk"] = *in.BHK
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Images != nil {
		set["images"] = *in.Images
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	set["isApproved"] = true
	return set
}
