package store

import (
	"bytes"
	"context"
	goerrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

const (
	defaultMongoDatabase = "stepmotion"
	sequenceCollection   = "sequences"
)

// MongoStore keeps sequences in a MongoDB collection, one document per
// algorithm id. The sequence itself is stored as canonical JSON so that
// documents survive trace schema additions without a migration.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// sequenceDoc is the stored document shape. The algorithm id doubles as
// the document id, which makes Put a natural upsert.
type sequenceDoc struct {
	AlgorithmID string    `bson:"_id"`
	StepCount   int       `bson:"step_count"`
	GeneratedAt string    `bson:"generated_at,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
	Data        []byte    `bson:"data"`
}

// NewMongoStore connects to MongoDB and pings it. An empty database name
// selects "stepmotion".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("stepmotion"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(sequenceCollection),
	}, nil
}

// List returns the stored algorithm ids, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list sequences")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			AlgorithmID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode sequence id")
		}
		ids = append(ids, doc.AlgorithmID)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list sequences")
	}
	return ids, nil
}

// Get fetches and validates the sequence for an algorithm id.
func (s *MongoStore) Get(ctx context.Context, algorithmID string) (*trace.Sequence, error) {
	if err := errors.ValidateAlgorithmID(algorithmID); err != nil {
		return nil, err
	}
	var doc sequenceDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": algorithmID}).Decode(&doc)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeTraceNotFound, "no stored trace for algorithm %q", algorithmID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch sequence %s", algorithmID)
	}
	return trace.ReadSequence(bytes.NewReader(doc.Data))
}

// Put upserts the sequence document keyed by its AlgorithmID.
func (s *MongoStore) Put(ctx context.Context, seq *trace.Sequence) error {
	if seq == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot store nil sequence")
	}
	if err := errors.ValidateAlgorithmID(seq.AlgorithmID); err != nil {
		return err
	}
	if err := seq.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := trace.WriteSequence(seq, &buf); err != nil {
		return err
	}
	doc := sequenceDoc{
		AlgorithmID: seq.AlgorithmID,
		StepCount:   len(seq.Steps),
		GeneratedAt: seq.GeneratedAt,
		UpdatedAt:   time.Now().UTC(),
		Data:        buf.Bytes(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": seq.AlgorithmID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store sequence %s", seq.AlgorithmID)
	}
	return nil
}

// Delete removes the document for an algorithm id.
func (s *MongoStore) Delete(ctx context.Context, algorithmID string) error {
	if err := errors.ValidateAlgorithmID(algorithmID); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": algorithmID}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete sequence %s", algorithmID)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "disconnect mongodb")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
