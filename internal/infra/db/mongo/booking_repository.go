package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = fmt.Errorf("mongo: %w", domainbooking.ErrConcurrentUpdate)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	// Overlap queries filter by package and window; the code index backs
	// the uniqueness of booking codes.
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "package_id", Value: 1}, {Key: "dates.start", Value: 1}}},
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts conditionally on the loaded version. A lost race surfaces as
// ErrConcurrentUpdate and the caller retries from a fresh read.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, packageID domaincatalog.PackageID, window domainrange.DateRange, exclude []domainbooking.Status) ([]*domainbooking.Booking, error) {
	excluded := make([]string, 0, len(exclude))
	for _, s := range exclude {
		excluded = append(excluded, string(s))
	}
	filter := bson.M{
		"package_id":  string(packageID),
		"status":      bson.M{"$nin": excluded},
		"dates.start": bson.M{"$lte": window.End.UnixMilli()},
		"dates.end":   bson.M{"$gte": window.Start.UnixMilli()},
	}
	return r.find(ctx, filter)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type bookingDocument struct {
	ID            string                       `bson:"_id"`
	Code          string                       `bson:"code"`
	UserID        string                       `bson:"user_id"`
	PackageID     string                       `bson:"package_id"`
	DestinationID string                       `bson:"destination_id"`
	Travelers     domainpricing.Travelers      `bson:"travelers"`
	Dates         rangeDocument                `bson:"dates"`
	DurationDays  int                          `bson:"duration_days"`
	Accommodation domainbooking.Accommodation  `bson:"accommodation"`
	Transport     domainbooking.Transportation `bson:"transportation"`
	Pricing       domainpricing.Quote          `bson:"pricing"`
	Payment       domainbooking.Ledger         `bson:"payment"`
	Status        string                       `bson:"status"`
	Cancellation  domainbooking.Cancellation   `bson:"cancellation"`
	Reviews       []domainbooking.Review       `bson:"reviews,omitempty"`
	CreatedAt     int64                        `bson:"created_at"`
	UpdatedAt     int64                        `bson:"updated_at"`
	Version       int64                        `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		Code:          b.Code,
		UserID:        b.UserID,
		PackageID:     string(b.PackageID),
		DestinationID: string(b.DestinationID),
		Travelers:     b.Travelers,
		Dates:         rangeDocument{Start: b.Dates.Start.UnixMilli(), End: b.Dates.End.UnixMilli()},
		DurationDays:  b.DurationDays,
		Accommodation: b.Accommodation,
		Transport:     b.Transportation,
		Pricing:       b.Pricing,
		Payment:       b.Payment,
		Status:        string(b.Status),
		Cancellation:  b.Cancellation,
		Reviews:       b.Reviews,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:             domainbooking.BookingID(d.ID),
		Code:           d.Code,
		UserID:         d.UserID,
		PackageID:      domaincatalog.PackageID(d.PackageID),
		DestinationID:  domaincatalog.DestinationID(d.DestinationID),
		Travelers:      d.Travelers,
		Dates:          domainrange.DateRange{Start: timestampToTime(d.Dates.Start), End: timestampToTime(d.Dates.End)},
		DurationDays:   d.DurationDays,
		Accommodation:  d.Accommodation,
		Transportation: d.Transport,
		Pricing:        d.Pricing,
		Payment:        d.Payment,
		Status:         domainbooking.Status(d.Status),
		Cancellation:   d.Cancellation,
		Reviews:        d.Reviews,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
