package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domaincatalog "wayfare/internal/domain/catalog"
	"wayfare/internal/domain/shared/money"
)

// CatalogRepository reads package and destination records maintained by the
// external catalog service. This core never writes them.
type CatalogRepository struct {
	packages     *mongo.Collection
	destinations *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		packages:     db.Collection("catalog_packages"),
		destinations: db.Collection("catalog_destinations"),
	}
}

func (r *CatalogRepository) ByID(ctx context.Context, id domaincatalog.PackageID) (*domaincatalog.TravelPackage, error) {
	var doc packageDocument
	if err := r.packages.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrPackageNotFound
		}
		return nil, err
	}
	return &domaincatalog.TravelPackage{
		ID:              domaincatalog.PackageID(doc.ID),
		DestinationID:   domaincatalog.DestinationID(doc.DestinationID),
		Name:            doc.Name,
		IsActive:        doc.IsActive,
		AdultPrice:      money.Money{Amount: doc.AdultPriceMinor, Currency: doc.Currency},
		MaxBookings:     doc.MaxBookings,
		CurrentBookings: doc.CurrentBookings,
	}, nil
}

// Destinations adapts the repository to the destination port.
func (r *CatalogRepository) Destinations() *DestinationRepository {
	return &DestinationRepository{col: r.destinations}
}

type DestinationRepository struct {
	col *mongo.Collection
}

func (r *DestinationRepository) ByID(ctx context.Context, id domaincatalog.DestinationID) (*domaincatalog.Destination, error) {
	var doc destinationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrDestinationNotFound
		}
		return nil, err
	}
	return &domaincatalog.Destination{
		ID:       domaincatalog.DestinationID(doc.ID),
		Name:     doc.Name,
		Country:  doc.Country,
		IsActive: doc.IsActive,
	}, nil
}

type packageDocument struct {
	ID              string `bson:"_id"`
	DestinationID   string `bson:"destination_id"`
	Name            string `bson:"name"`
	IsActive        bool   `bson:"is_active"`
	AdultPriceMinor int64  `bson:"adult_price_minor"`
	Currency        string `bson:"currency"`
	MaxBookings     int    `bson:"max_bookings"`
	CurrentBookings int    `bson:"current_bookings"`
}

type destinationDocument struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	Country  string `bson:"country"`
	IsActive bool   `bson:"is_active"`
}
