package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

type userDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Password      string             `bson:"password"`
	Address       string             `bson:"address"`
	IsVerified    bool               `bson:"isVerified"`
	LastEmailSent *time.Time         `bson:"lastEmailSent,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toSchema() *schemas.User {
	return &schemas.User{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		Password:      d.Password,
		Address:       d.Address,
		IsVerified:    d.IsVerified,
		LastEmailSent: d.LastEmailSent,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type UserStore struct {
	col *mongo.Collection
}

func (s *UserStore) Create(ctx context.Context, user *schemas.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := userDocument{
		ID:         primitive.NewObjectID(),
		Name:       user.Name,
		Email:      user.Email,
		Password:   user.Password,
		Address:    user.Address,
		IsVerified: user.IsVerified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return translate(err, "insert user")
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*schemas.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*schemas.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDocument
	if err := s.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err, "find user")
	}
	return doc.toSchema(), nil
}

func (s *UserStore) MarkVerified(ctx context.Context, id string) error {
	return s.set(ctx, id, bson.M{"isVerified": true})
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.set(ctx, id, bson.M{"password": passwordHash})
}

func (s *UserStore) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	res, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": fields})
	if err != nil {
		return translate(err, "update user")
	}
	if res.MatchedCount == 0 {
		return stores.ErrNotFound
	}
	return nil
}

func (s *UserStore) ClaimEmailSlot(ctx context.Context, id string, now time.Time, minDelay time.Duration) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// lastEmailSent: null also matches documents without the field
	filter := bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"lastEmailSent": nil},
			bson.M{"lastEmailSent": bson.M{"$lte": now.Add(-minDelay)}},
		},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"lastEmailSent": now}})
	if err != nil {
		return false, translate(err, "claim email slot")
	}
	return res.MatchedCount == 1, nil
}

func (s *UserStore) ReleaseEmailSlot(ctx context.Context, id string, claimedAt time.Time, previous *time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$unset": bson.M{"lastEmailSent": ""}}
	if previous != nil {
		update = bson.M{"$set": bson.M{"lastEmailSent": *previous}}
	}
	if _, err = s.col.UpdateOne(ctx, bson.M{"_id": oid, "lastEmailSent": claimedAt}, update); err != nil {
		return translate(err, "release email slot")
	}
	return nil
}
