package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/alexivanou/weather-requests/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- MongoDB Implementation ---

type mongoRequestRepository struct {
	coll *mongo.Collection
}

type requestDocument struct {
	ID        primitive.ObjectID             `bson:"_id,omitempty"`
	City      string                         `bson:"city"`
	Language  string                         `bson:"language"`
	Units     string                         `bson:"units"`
	Forecast  []model.FormattedForecastEntry `bson:"forecast"`
	Timestamp time.Time                      `bson:"timestamp"`
}

func newRequestDocument(req model.StoredRequest) requestDocument {
	forecast := req.Forecast
	if forecast == nil {
		forecast = []model.FormattedForecastEntry{}
	}
	return requestDocument{
		City:      req.City,
		Language:  req.Language,
		Units:     req.Units,
		Forecast:  forecast,
		Timestamp: req.Timestamp.UTC(),
	}
}

func (d requestDocument) toModel() model.StoredRequest {
	forecast := d.Forecast
	if forecast == nil {
		forecast = []model.FormattedForecastEntry{}
	}
	return model.StoredRequest{
		ID:        d.ID.Hex(),
		City:      d.City,
		Language:  d.Language,
		Units:     d.Units,
		Forecast:  forecast,
		Timestamp: d.Timestamp.UTC(),
	}
}

func (r *mongoRequestRepository) Save(ctx context.Context, req *model.StoredRequest) error {
	res, err := r.coll.InsertOne(ctx, newRequestDocument(*req))
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		req.ID = id.Hex()
	}
	return nil
}

func (r *mongoRequestRepository) BulkInsert(ctx context.Context, reqs []model.StoredRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(reqs))
	for _, req := range reqs {
		docs = append(docs, newRequestDocument(req))
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

func (r *mongoRequestRepository) Find(ctx context.Context, filter model.RequestFilter) ([]model.StoredRequest, error) {
	if !literalFieldNames(filter.Fields) {
		return []model.StoredRequest{}, nil
	}

	cursor, err := r.coll.Find(ctx, mongoFilter(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []requestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]model.StoredRequest, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toModel())
	}
	return result, nil
}

func (r *mongoRequestRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *mongoRequestRepository) Stats(ctx context.Context) (*model.StoreStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cities := []model.CityCount{}
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, err
	}

	stats := &model.StoreStats{Cities: cities}
	for _, c := range cities {
		stats.TotalRequests += c.Count
	}
	return stats, nil
}

// literalFieldNames reports whether every extra filter key names a plain
// top-level field. A key starting with "$" would be read as an operator and
// a dotted key as a path into nested documents; neither can match a stored
// field of that literal name.
func literalFieldNames(fields map[string]string) bool {
	for key := range fields {
		if key == "" || strings.HasPrefix(key, "$") || strings.Contains(key, ".") {
			return false
		}
	}
	return true
}

// mongoFilter builds the query document: city is a case-insensitive literal
// substring, language and units case-insensitive exact matches, and any
// other field an $eq match. Keys must pass literalFieldNames first.
func mongoFilter(filter model.RequestFilter) bson.M {
	query := bson.M{}
	for key, value := range filter.Fields {
		query[key] = bson.M{"$eq": value}
	}

	if filter.City != "" {
		query["city"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.City), Options: "i"}
	}
	if filter.Language != "" {
		query["language"] = exactInsensitive(filter.Language)
	}
	if filter.Units != "" {
		query["units"] = exactInsensitive(filter.Units)
	}

	if filter.Start != nil || filter.End != nil {
		rng := bson.M{}
		if filter.Start != nil {
			rng["$gte"] = filter.Start.UTC()
		}
		if filter.End != nil {
			rng["$lt"] = filter.End.UTC()
		}
		query["timestamp"] = rng
	}
	return query
}

func exactInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.ToLower(value)) + "$", Options: "i"}
}
