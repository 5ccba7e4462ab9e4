package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/floodprep/pkg/scenario"
)

// MongoURIEnv names the environment variable holding the MongoDB URI.
const MongoURIEnv = "FLOODPREP_MONGO_URI"

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

func (c *MongoConfig) setDefaults() {
	if c.URI == "" {
		c.URI = os.Getenv(MongoURIEnv)
	}
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "floodprep"
	}
	if c.Collection == "" {
		c.Collection = "runs"
	}
}

// mongoRun stores artifacts as a list since file names contain dots,
// which are awkward as document keys.
type mongoRun struct {
	Run       `bson:",inline"`
	Artifacts []mongoArtifact `bson:"artifacts"`
}

type mongoArtifact struct {
	Name string `bson:"name"`
	Data []byte `bson:"data"`
}

func toMongo(run *Run) mongoRun {
	doc := mongoRun{Run: *run}
	for _, name := range run.Artifacts.Names() {
		doc.Artifacts = append(doc.Artifacts, mongoArtifact{Name: name, Data: run.Artifacts[name]})
	}
	return doc
}

func (d mongoRun) toRun() *Run {
	run := d.Run
	run.Artifacts = make(scenario.Artifacts, len(d.Artifacts))
	for _, a := range d.Artifacts {
		run.Artifacts[a.Name] = a.Data
	}
	return &run
}

// MongoStore keeps runs in a MongoDB collection keyed by run ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures the
// created_at index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	cfg.setDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, run *Run) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": run.ID}, toMongo(run), opts); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var doc mongoRun
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return doc.toRun(), nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var docs []mongoRun
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	out := make([]Summary, len(docs))
	for i := range docs {
		out[i] = docs[i].toRun().Summary()
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
