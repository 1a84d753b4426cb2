package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gadget-server/internal/schemas"
)

type tokenDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `bson:"userId"`
	Hash      string               `bson:"hash"`
	Purpose   schemas.TokenPurpose `bson:"purpose"`
	CreatedAt time.Time            `bson:"createdAt"`
	ExpiresAt time.Time            `bson:"expiresAt"`
}

func (d *tokenDocument) toSchema() *schemas.Token {
	return &schemas.Token{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Hash:      d.Hash,
		Purpose:   d.Purpose,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}

// TokenStore keeps at most one document per (userId, purpose), guarded by a unique index.
// Expired documents are removed by the TTL index on expiresAt.
type TokenStore struct {
	col *mongo.Collection
}

// Create upserts on an expired token of the same user and purpose. When a live
// one exists the filter misses and the insert collides with the unique index.
func (s *TokenStore) Create(ctx context.Context, token *schemas.Token) error {
	uid, err := objectID(token.UserID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"userId":    uid,
		"purpose":   token.Purpose,
		"expiresAt": bson.M{"$lte": token.CreatedAt},
	}
	update := bson.M{"$set": bson.M{
		"hash":      token.Hash,
		"createdAt": token.CreatedAt,
		"expiresAt": token.ExpiresAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc tokenDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return translate(err, "insert token")
	}
	token.ID = doc.ID.Hex()
	return nil
}

func (s *TokenStore) Consume(ctx context.Context, userID, hash string, purpose schemas.TokenPurpose, now time.Time) (*schemas.Token, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"userId":    uid,
		"hash":      hash,
		"purpose":   purpose,
		"expiresAt": bson.M{"$gt": now},
	}

	var doc tokenDocument
	if err := s.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, "consume token")
	}
	return doc.toSchema(), nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now}})
	if err != nil {
		return 0, translate(err, "delete expired tokens")
	}
	return res.DeletedCount, nil
}
