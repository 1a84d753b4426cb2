package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *categoryDocument) toSchema() *schemas.Category {
	return &schemas.Category{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type CategoryStore struct {
	col *mongo.Collection
}

func (s *CategoryStore) Create(ctx context.Context, category *schemas.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := categoryDocument{
		ID:        primitive.NewObjectID(),
		Title:     category.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return translate(err, "insert category")
	}

	*category = *doc.toSchema()
	return nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id string) (*schemas.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc categoryDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err, "find category")
	}
	return doc.toSchema(), nil
}

func (s *CategoryStore) FindAll(ctx context.Context) ([]schemas.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, 0, translate(err, "find categories")
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err, "decode categories")
	}

	categories := make([]schemas.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, *docs[i].toSchema())
	}
	return categories, int64(len(categories)), nil
}

// findMany loads the categories with the given ids, keyed by hex id.
func (s *CategoryStore) findMany(ctx context.Context, ids []primitive.ObjectID) (map[string]*schemas.Category, error) {
	result := make(map[string]*schemas.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, "find categories")
	}
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err, "decode categories")
	}
	for i := range docs {
		result[docs[i].ID.Hex()] = docs[i].toSchema()
	}
	return result, nil
}

func (s *CategoryStore) Update(ctx context.Context, id, title string) (*schemas.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"title": title, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc categoryDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update category")
	}
	return doc.toSchema(), nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err, "delete category")
	}
	if res.DeletedCount == 0 {
		return stores.ErrNotFound
	}
	return nil
}
