package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

// AlertRepository persists intrusion alerts in MongoDB. Inserts go through a
// single collection so the stored _id sequence preserves record order.
type AlertRepository struct {
	db *mongo.Database
}

func NewAlertRepository(client *mongo.Client) *AlertRepository {
	return &AlertRepository{
		db: client.Database("hids"),
	}
}

func (r *AlertRepository) Record(ctx context.Context, alert core.Alert) error {
	if _, err := r.db.Collection("alerts").InsertOne(ctx, alert); err != nil {
		return &core.StorageError{Backend: "mongo", Err: err}
	}
	return nil
}

func (r *AlertRepository) GetAlerts(ctx context.Context, filter core.AlertFilter) (*core.PaginatedAlerts, error) {
	mongoFilter := bson.M{}
	if filter.Severity != "" {
		mongoFilter["severity"] = filter.Severity
	}

	collection := r.db.Collection("alerts")

	totalItems, err := collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, &core.StorageError{Backend: "mongo", Err: err}
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	skip := (page - 1) * limit
	totalPages := (totalItems + limit - 1) / limit

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, &core.StorageError{Backend: "mongo", Err: err}
	}
	defer cursor.Close(ctx)

	var alerts []core.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, &core.StorageError{Backend: "mongo", Err: err}
	}
	if alerts == nil {
		alerts = []core.Alert{}
	}

	result := &core.PaginatedAlerts{Data: alerts}
	result.Pagination.CurrentPage = page
	result.Pagination.TotalPages = totalPages
	result.Pagination.TotalItems = totalItems
	result.Pagination.PerPage = limit
	return result, nil
}
