package mongodb

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

type imageDocument struct {
	URL     string `bson:"url"`
	ImageID string `bson:"imageId"`
}

type productDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	Price           float64            `bson:"price"`
	DiscountedPrice float64            `bson:"discountedPrice"`
	Category        primitive.ObjectID `bson:"category"`
	Quantity        int                `bson:"quantity"`
	InStock         bool               `bson:"inStock"`
	Sold            int                `bson:"sold"`
	Images          []imageDocument    `bson:"images"`
	IsFeatured      bool               `bson:"isFeatured"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func (d *productDocument) toSchema() *schemas.Product {
	images := make([]schemas.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, schemas.Image{URL: img.URL, ImageID: img.ImageID})
	}
	return &schemas.Product{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		Price:           d.Price,
		DiscountedPrice: d.DiscountedPrice,
		CategoryID:      d.Category.Hex(),
		Quantity:        d.Quantity,
		InStock:         d.InStock,
		Sold:            d.Sold,
		Images:          images,
		IsFeatured:      d.IsFeatured,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func imageDocuments(images []schemas.Image) []imageDocument {
	docs := make([]imageDocument, 0, len(images))
	for _, img := range images {
		docs = append(docs, imageDocument{URL: img.URL, ImageID: img.ImageID})
	}
	return docs
}

type ProductStore struct {
	col        *mongo.Collection
	categories *CategoryStore
}

func (s *ProductStore) Create(ctx context.Context, product *schemas.Product) error {
	categoryID, err := objectID(product.CategoryID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := productDocument{
		ID:              primitive.NewObjectID(),
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		DiscountedPrice: product.DiscountedPrice,
		Category:        categoryID,
		Quantity:        product.Quantity,
		InStock:         product.InStock,
		Sold:            product.Sold,
		Images:          imageDocuments(product.Images),
		IsFeatured:      product.IsFeatured,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return translate(err, "insert product")
	}

	product.ID = doc.ID.Hex()
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*schemas.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc productDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err, "find product")
	}

	products, err := s.populate(ctx, []productDocument{doc})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// listFilter builds the selection of a product listing. The keyword is escaped
// so that it always matches literally.
func listFilter(query stores.ProductQuery) (bson.M, error) {
	filter := bson.M{}
	if query.CategoryID != "" {
		oid, err := objectID(query.CategoryID)
		if err != nil {
			return nil, err
		}
		filter["category"] = oid
	}
	if query.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter, nil
}

func listSort(sort string) bson.D {
	switch sort {
	case stores.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case stores.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case stores.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case stores.SortAlphabetical:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (s *ProductStore) List(ctx context.Context, query stores.ProductQuery) ([]schemas.Product, int64, error) {
	filter, err := listFilter(query)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err, "count products")
	}

	opts := options.Find().
		SetSort(listSort(query.Sort)).
		SetSkip(int64(query.Offset())).
		SetLimit(int64(query.Limit))
	if query.Sort == stores.SortAlphabetical {
		// case-insensitive ordering of names
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err, "find products")
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err, "decode products")
	}

	products, err := s.populate(ctx, docs)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductStore) Update(ctx context.Context, id string, update stores.ProductUpdate) (*schemas.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.DiscountedPrice != nil {
		set["discountedPrice"] = *update.DiscountedPrice
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
	}
	if update.CategoryID != nil {
		categoryID, err := objectID(*update.CategoryID)
		if err != nil {
			return nil, err
		}
		set["category"] = categoryID
	}
	if update.InStock != nil {
		set["inStock"] = *update.InStock
	}
	if update.IsFeatured != nil {
		set["isFeatured"] = *update.IsFeatured
	}
	if update.Images != nil {
		set["images"] = imageDocuments(update.Images)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err, "update product")
	}

	products, err := s.populate(ctx, []productDocument{doc})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) (*schemas.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc productDocument
	if err := s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err, "delete product")
	}
	return doc.toSchema(), nil
}

// populate converts the documents and attaches their categories with a single lookup.
func (s *ProductStore) populate(ctx context.Context, docs []productDocument) ([]schemas.Product, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, doc := range docs {
		if !seen[doc.Category] {
			seen[doc.Category] = true
			ids = append(ids, doc.Category)
		}
	}

	categories, err := s.categories.findMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	products := make([]schemas.Product, 0, len(docs))
	for i := range docs {
		p := docs[i].toSchema()
		p.Category = categories[p.CategoryID]
		products = append(products, *p)
	}
	return products, nil
}
