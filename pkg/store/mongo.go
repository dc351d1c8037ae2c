package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zestlabs/zest/pkg/errors"
)

// Mongo is a MongoDB-backed store for shared deployments.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB at uri and uses the given database and
// collection. The connection is verified with a ping before returning.
func NewMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pinging mongodb")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save archives a document, replacing any previous document with the same ID.
func (s *Mongo) Save(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document must have an ID")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "saving document %s", doc.ID)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *Mongo) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNetlistNotFound, "no document with id %q", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "loading document %s", id)
	}
	return &doc, nil
}

// FindByHash retrieves the most recently created document for a hash.
func (s *Mongo) FindByHash(ctx context.Context, hash string) (*Document, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"hash": hash}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNetlistNotFound, "no document with hash %q", hash)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "looking up hash %s", hash)
	}
	return &doc, nil
}

// Close disconnects from MongoDB.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
