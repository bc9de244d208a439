package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"nevis-search-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClientStore implements ClientStore on a MongoDB collection.
type MongoClientStore struct {
	collection *mongo.Collection
}

func NewMongoClientStore(db *mongo.Database) *MongoClientStore {
	return &MongoClientStore{collection: db.Collection("clients")}
}

func (s *MongoClientStore) Create(ctx context.Context, client models.Client) error {
	_, err := s.collection.InsertOne(ctx, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *MongoClientStore) Get(ctx context.Context, id models.ClientID) (models.Client, error) {
	var client models.Client
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Client{}, ErrNotFound
		}
		return models.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *MongoClientStore) List(ctx context.Context, offset, limit int) ([]models.Client, int64, error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, 0, fmt.Errorf("failed to decode clients: %w", err)
	}

	return clients, total, nil
}

func (s *MongoClientStore) FindMatching(ctx context.Context, query string, limit int) ([]models.Client, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"email": pattern},
		{"first_name": pattern},
		{"last_name": pattern},
		{"description": pattern},
	}}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("client search failed: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}

	return clients, nil
}

// MongoDocumentStore implements DocumentStore on a MongoDB collection.
type MongoDocumentStore struct {
	collection *mongo.Collection
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{collection: db.Collection("documents")}
}

func (s *MongoDocumentStore) Create(ctx context.Context, doc models.Document) error {
	_, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *MongoDocumentStore) Get(ctx context.Context, id models.DocumentID) (models.Document, error) {
	var doc models.Document
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Document{}, ErrNotFound
		}
		return models.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

func (s *MongoDocumentStore) ListByClient(ctx context.Context, clientID models.ClientID, offset, limit int) ([]models.Document, int64, error) {
	filter := bson.M{"client_id": clientID}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, total, nil
}

func (s *MongoDocumentStore) FindMatching(ctx context.Context, query string, words []string, limit int) ([]models.Document, error) {
	clauses := []bson.M{
		{"title": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}},
		{"content": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}},
	}
	for _, word := range words {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(word), Options: "i"}
		clauses = append(clauses, bson.M{"title": pattern}, bson.M{"content": pattern})
	}

	opts := options.Find().SetLimit(int64(limit))
	cursor, err := s.collection.Find(ctx, bson.M{"$or": clauses}, opts)
	if err != nil {
		return nil, fmt.Errorf("document search failed: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return docs, nil
}

// NearestByEmbedding scans documents that carry an embedding and scores
// them in-process. Fine at this collection size; swap for a vector index
// when the corpus grows.
func (s *MongoDocumentStore) NearestByEmbedding(ctx context.Context, vec []float32, limit int, threshold float64) ([]SemanticMatch, error) {
	filter := bson.M{"embedding": bson.M{"$exists": true, "$ne": nil}}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []SemanticMatch
	for cursor.Next(ctx) {
		var doc models.Document
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		similarity := Cosine(vec, doc.Embedding)
		if similarity >= threshold {
			matches = append(matches, SemanticMatch{Document: doc, Similarity: similarity})
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func (s *MongoDocumentStore) SetSummary(ctx context.Context, id models.DocumentID, summary models.SummaryRecord) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"summary": summary}},
	)
	if err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
