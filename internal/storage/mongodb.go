package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MereWhiplash/portfolio-search/internal/types"
)

// MongoDB implements Store using a MongoDB text index for the keyword leg
// and Atlas Vector Search for the vector leg.
//
// Each collection needs a text index over its lemmatized fields and, for vector
// scoring, an Atlas Vector Search index named "<Collection>_vector" on "embedding".
// Without Atlas the vector leg fails and keyword scoring is used alone.
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDB creates a new MongoDB store
func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDB{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) Ready(ctx context.Context) bool {
	return m.client.Ping(ctx, nil) == nil
}

func (m *MongoDB) Hybrid(ctx context.Context, q types.HybridQuery) ([]types.Record, error) {
	if _, ok := types.CollectionByName(q.Collection.Name); !ok {
		return nil, fmt.Errorf("unknown collection: %s", q.Collection.Name)
	}
	coll := m.db.Collection(q.Collection.Name)

	var keyword, vector leg
	if terms := keywordTerms(q.Text); len(terms) > 0 {
		keyword = func(ctx context.Context, limit int) ([]types.Record, error) {
			return m.keywordSearch(ctx, coll, q.Collection, terms, limit)
		}
	}
	if q.Vector != nil {
		vector = func(ctx context.Context, limit int) ([]types.Record, error) {
			return m.vectorSearch(ctx, coll, q.Collection, q.Vector, limit)
		}
	}

	return emulateHybrid(ctx, q, keyword, vector)
}

func (m *MongoDB) keywordSearch(ctx context.Context, coll *mongo.Collection, c types.Collection, terms []string, limit int) ([]types.Record, error) {
	score := bson.D{{Key: "$meta", Value: "textScore"}}

	projection := mongoProjection(c)
	projection = append(projection, bson.E{Key: "score", Value: score})

	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetLimit(int64(limit))

	filter := bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: strings.Join(terms, " ")}}}}

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeMongo(ctx, cursor, c)
}

func (m *MongoDB) vectorSearch(ctx context.Context, coll *mongo.Collection, c types.Collection, embedding []float32, limit int) ([]types.Record, error) {
	projection := mongoProjection(c)
	projection = append(projection, bson.E{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}})

	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: c.Name + "_vector"},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: embedding},
			{Key: "numCandidates", Value: limit * 10},
			{Key: "limit", Value: limit},
		}}},
		{{Key: "$project", Value: projection}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeMongo(ctx, cursor, c)
}

func mongoProjection(c types.Collection) bson.D {
	projection := bson.D{}
	for _, f := range c.Fields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	return projection
}

func decodeMongo(ctx context.Context, cursor *mongo.Cursor, c types.Collection) ([]types.Record, error) {
	var records []types.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		rec := types.Record{ID: fmt.Sprint(doc["_id"]), Fields: make(map[string]any, len(c.Fields))}
		for _, f := range c.Fields {
			if v, ok := doc[f]; ok && v != nil {
				rec.Fields[f] = v
			}
		}
		if s, ok := doc["score"].(float64); ok {
			rec.Score = s
		}
		records = append(records, rec)
	}

	return records, cursor.Err()
}
