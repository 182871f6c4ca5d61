package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mehular0ra/propfinder/internal/apperr"
	"github.com/mehular0ra/propfinder/internal/mailer"
	"github.com/mehular0ra/propfinder/internal/models"
)

// The not-found message is identical for missing ids and unapproved
// listings so public callers cannot probe unpublished inventory.
const msgPropertyNotFound = "Property not found"

// propertyStore is the slice of the properties collection the service
// touches. *mongo.Collection satisfies it; tests substitute fakes.
type propertyStore interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// ownerStore is the read-only view of the users collection needed to
// project owners into listing responses.
type ownerStore interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// PropertyService handles public search and the admin-side listing CRUD.
type PropertyService struct {
	properties propertyStore
	users      ownerStore
	mail       mailer.Mailer
	log        zerolog.Logger
	adminEmail string
}

func NewPropertyService(database *mongo.Database, mail mailer.Mailer, log zerolog.Logger, adminEmail string) *PropertyService {
	return &PropertyService{
		properties: database.Collection("properties"),
		users:      database.Collection("users"),
		mail:       mail,
		log:        log,
		adminEmail: adminEmail,
	}
}

// SearchResult is one page of listings plus its pagination metadata.
type SearchResult struct {
	Properties []models.Property `json:"properties"`
	Pagination Pagination        `json:"pagination"`
}

// Search runs the public filtered search. Only approved and active
// listings are ever returned.
func (s *PropertyService) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	page, limit := normalizePage(p.Page, p.Limit)
	filter := searchFilter(p)

	total, err := s.properties.CountDocuments(ctx, filter)
	if err != nil {
		return SearchResult{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	opts := options.Find().
		SetSort(searchSort(p.SortBy, p.SortOrder)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.properties.Find(ctx, filter, opts)
	if err != nil {
		return SearchResult{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return SearchResult{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	if err := s.attachOwners(ctx, properties); err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Properties: properties,
		Pagination: paginate(page, limit, total),
	}, nil
}

// GetOne fetches a publicly visible listing and counts the view. The
// increment rides on the visibility-filtered read as one atomic update, so
// concurrent fetches never lose counts.
func (s *PropertyService) GetOne(ctx context.Context, id string) (models.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Property{}, apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}

	var property models.Property
	err = s.properties.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "isApproved": true, "isActive": true},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}
	if err != nil {
		return models.Property{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	if err := s.attachOwner(ctx, &property); err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// CreateInput carries the validated fields for a new listing.
type CreateInput struct {
	Title       string
	Description string
	Type        string
	BHK         string
	Location    string
	Price       float64
	Status      string
	Images      []string
}

// Create inserts an admin-created listing. It is auto-published: approval
// and activity are forced true, there is no moderation queue. The owner
// confirmation and admin notification emails are best-effort.
func (s *PropertyService) Create(ctx context.Context, owner models.User, in CreateInput) (models.Property, error) {
	property := models.Property{
		ID:          primitive.NewObjectID(),
		OwnerID:     owner.ID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		BHK:         in.BHK,
		Location:    in.Location,
		Price:       in.Price,
		Status:      in.Status,
		Images:      normalizeImages(in.Images),
		IsApproved:  true,
		IsActive:    true,
		Views:       0,
		CreatedAt:   time.Now(),
	}

	if _, err := s.properties.InsertOne(ctx, property); err != nil {
		return models.Property{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	property.Owner = owner.OwnerView()

	go notify(s.log, s.mail,
		mailer.Message{
			To:       owner.Email,
			ToName:   owner.Name,
			Subject:  "Your listing is live",
			TextBody: fmt.Sprintf("Hi %s,\n\nYour listing %q in %s is now live on PropFinder.", owner.Name, property.Title, property.Location),
		},
		mailer.Message{
			To:       s.adminEmail,
			Subject:  "New property listed",
			TextBody: fmt.Sprintf("Listing %q (%s) was created by %s.", property.Title, property.ID.Hex(), owner.Name),
		},
	)

	return property, nil
}

// Update applies the supplied fields to a listing. Any update re-publishes:
// isApproved is forced true even when the payload tries to clear it.
func (s *PropertyService) Update(ctx context.Context, id string, in UpdateInput) (models.Property, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Property{}, apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}

	var property models.Property
	err = s.properties.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": updateDocument(in)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&property)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}
	if err != nil {
		return models.Property{}, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	if err := s.attachOwner(ctx, &property); err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// Delete permanently removes a listing.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}

	result, err := s.properties.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.CodeNotFound, msgPropertyNotFound)
	}
	return nil
}

// ListAll returns every listing regardless of visibility flags, newest
// first. Admin management views use it.
func (s *PropertyService) ListAll(ctx context.Context) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.properties.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	if err := s.attachOwners(ctx, properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *PropertyService) attachOwner(ctx context.Context, property *models.Property) error {
	var owner models.PropertyOwner
	err := s.users.FindOne(ctx, bson.M{"_id": property.OwnerID}).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	property.Owner = &owner
	return nil
}

// attachOwners resolves the owner projection for a page of listings with a
// single users query.
func (s *PropertyService) attachOwners(ctx context.Context, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, p := range properties {
		if !seen[p.OwnerID] {
			seen[p.OwnerID] = true
			ids = append(ids, p.OwnerID)
		}
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}
	defer cursor.Close(ctx)

	owners := []models.PropertyOwner{}
	if err := cursor.All(ctx, &owners); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Internal server error", err)
	}

	byID := make(map[primitive.ObjectID]*models.PropertyOwner, len(owners))
	for i := range owners {
		byID[owners[i].ID] = &owners[i]
	}
	for i := range properties {
		properties[i].Owner = byID[properties[i].OwnerID]
	}
	return nil
}
