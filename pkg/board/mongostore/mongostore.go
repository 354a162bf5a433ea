// Package mongostore implements board.BlockStore on MongoDB.
//
// Blocks live in a single collection keyed by block id, with the workspace
// stored alongside and indexed with the parent id for child listings.
package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/errors"
)

// Collection is the name of the block collection.
const Collection = "blocks"

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "hexboard"

const connectTimeout = 10 * time.Second

// Store is a board.BlockStore backed by a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// New connects to uri and returns a store on database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	if err := errors.ValidateMongoURI(uri); err != nil {
		return nil, err
	}
	if database == "" {
		database = DefaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}

	s := NewFromCollection(client.Database(database).Collection(Collection))
	s.client = client
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewFromCollection wraps an existing collection. Close does not disconnect
// the collection's client.
func NewFromCollection(coll *mongo.Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// EnsureIndexes creates the workspace/parent index used by Children.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workspace", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create index")
	}
	return nil
}

type property struct {
	Value string `bson:"value"`
}

type blockDoc struct {
	ID         string              `bson:"_id"`
	Workspace  string              `bson:"workspace"`
	ParentID   string              `bson:"parent_id,omitempty"`
	Type       string              `bson:"type"`
	Properties map[string]property `bson:"properties"`
	Created    time.Time           `bson:"created"`
	Updated    time.Time           `bson:"updated"`
}

func toDoc(b board.Block) blockDoc {
	props := make(map[string]property, len(b.Properties))
	for k, v := range b.Properties {
		props[k] = property{Value: v.Value}
	}
	return blockDoc{
		ID:         b.ID,
		Workspace:  b.Workspace,
		ParentID:   b.ParentID,
		Type:       string(b.Type),
		Properties: props,
		Created:    b.Created,
		Updated:    b.Updated,
	}
}

func (d blockDoc) block() board.Block {
	props := make(map[string]board.Property, len(d.Properties))
	for k, v := range d.Properties {
		props[k] = board.Property{Value: v.Value}
	}
	return board.Block{
		ID:         d.ID,
		Workspace:  d.Workspace,
		ParentID:   d.ParentID,
		Type:       board.BlockType(d.Type),
		Properties: props,
		Created:    d.Created,
		Updated:    d.Updated,
	}
}

// Get returns the blocks found among ids, in request order.
func (s *Store) Get(ctx context.Context, workspace string, ids []string) ([]board.Block, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"workspace": workspace, "_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find blocks")
	}
	var docs []blockDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode blocks")
	}
	return orderByIDs(docs, ids), nil
}

func orderByIDs(docs []blockDoc, ids []string) []board.Block {
	byID := make(map[string]blockDoc, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	var out []board.Block
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d.block())
		}
	}
	return out
}

// Children returns the blocks under parentID, oldest first.
func (s *Store) Children(ctx context.Context, workspace, parentID string) ([]board.Block, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"workspace": workspace, "parent_id": parentID}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find children")
	}
	var docs []blockDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode children")
	}
	out := make([]board.Block, len(docs))
	for i, d := range docs {
		out[i] = d.block()
	}
	return out, nil
}

// Create inserts a new block. A request without an ID gets a random UUID.
func (s *Store) Create(ctx context.Context, req board.CreateRequest) (board.Block, error) {
	if req.Workspace == "" {
		return board.Block{}, errors.New(errors.ErrCodeInvalidInput, "workspace is required")
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	b := board.Block{
		ID:         id,
		Workspace:  req.Workspace,
		ParentID:   req.ParentID,
		Type:       req.Type,
		Properties: map[string]board.Property{},
		Created:    now,
		Updated:    now,
	}
	if _, err := s.coll.InsertOne(ctx, toDoc(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return board.Block{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "block %q already exists", id)
		}
		return board.Block{}, errors.Wrap(errors.ErrCodeStore, err, "insert block")
	}
	return b, nil
}

// Update sets the given properties on a block.
func (s *Store) Update(ctx context.Context, req board.UpdateRequest) error {
	set := updateSet(req.Properties, s.now().UTC().Truncate(time.Millisecond))
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": req.ID, "workspace": req.Workspace},
		bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "update block")
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeBlockNotFound, "block %q not found in workspace %q", req.ID, req.Workspace)
	}
	return nil
}

// updateSet builds a $set document that touches only the named properties.
func updateSet(props map[string]board.Property, now time.Time) bson.M {
	set := bson.M{"updated": now}
	for k, v := range props {
		set["properties."+k] = property{Value: v.Value}
	}
	return set
}

// Delete removes a block if it exists.
func (s *Store) Delete(ctx context.Context, workspace, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "workspace": workspace}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete block")
	}
	return nil
}

// Close disconnects the client opened by New.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ board.BlockStore = (*Store)(nil)
