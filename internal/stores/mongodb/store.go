// Package mongodb implements the stores on top of MongoDB.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gadget-server/internal/stores"
)

const (
	usersCollection      = "users"
	tokensCollection     = "tokens"
	categoriesCollection = "categories"
	productsCollection   = "products"

	opTimeout = 5 * time.Second
)

// Store is the MongoDB backend.
type Store struct {
	client     *mongo.Client
	db         *mongo.Database
	users      *UserStore
	tokens     *TokenStore
	categories *CategoryStore
	products   *ProductStore
}

// Connect dials the server, verifies the connection and creates the indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}

	s := New(client.Database(database))
	s.client = client
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB database ", database)
	return s, nil
}

// New builds the stores on an existing database handle without touching the server.
func New(db *mongo.Database) *Store {
	categories := &CategoryStore{col: db.Collection(categoriesCollection)}
	return &Store{
		client:     db.Client(),
		db:         db,
		users:      &UserStore{col: db.Collection(usersCollection)},
		tokens:     &TokenStore{col: db.Collection(tokensCollection)},
		categories: categories,
		products:   &ProductStore{col: db.Collection(productsCollection), categories: categories},
	}
}

// EnsureIndexes creates the unique and TTL indexes the stores rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		tokensCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "purpose", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", collection)
		}
	}
	return nil
}

func (s *Store) Users() stores.UserStore { return s.users }
func (s *Store) Tokens() stores.TokenStore { return s.tokens }
func (s *Store) Categories() stores.CategoryStore { return s.categories }
func (s *Store) Products() stores.ProductStore { return s.products }
func (s *Store) ValidID(id string) bool { return primitive.IsValidObjectID(id) }

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		log.Warn("Error disconnecting from MongoDB: ", err)
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, stores.ErrInvalidID
	}
	return oid, nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return stores.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return stores.ErrDuplicate
	default:
		return errors.Wrap(err, op)
	}
}
