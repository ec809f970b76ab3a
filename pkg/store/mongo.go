package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/dagviewer/pkg/viewer"
)

// MongoCollection is the collection viewer documents live in.
const MongoCollection = "viewers"

// MongoStore keeps one document per viewer, keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database db.
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo store needs a URI")
	}
	if db == "" {
		db = "dagviewer"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(MongoCollection)}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (viewer.State, error) {
	var st viewer.State
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return viewer.State{}, notFound(id)
	}
	if err != nil {
		return viewer.State{}, fmt.Errorf("find viewer: %w", err)
	}
	return st, nil
}

func (s *MongoStore) Put(ctx context.Context, st viewer.State) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": st.ID}, st, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save viewer: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete viewer: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
