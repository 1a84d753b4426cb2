package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"gadget-server/internal/interfaces"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

const productColumns = "id, name, description, price, discounted_price, COALESCE(category_id::text, ''), " +
	"quantity, in_stock, sold, images, is_featured, created_at, updated_at"

type ProductStore struct {
	pool       interfaces.PgxPoolIface
	categories *CategoryStore
}

func scanProduct(row pgx.Row) (*schemas.Product, error) {
	product := &schemas.Product{}
	var images []byte
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.DiscountedPrice,
		&product.CategoryID, &product.Quantity, &product.InStock, &product.Sold, &images, &product.IsFeatured,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, errors.Wrap(err, "decode product images")
	}
	return product, nil
}

func encodeImages(images []schemas.Image) (json.RawMessage, error) {
	if images == nil {
		images = []schemas.Image{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return nil, errors.Wrap(err, "encode product images")
	}
	return raw, nil
}

func (s *ProductStore) Create(ctx context.Context, product *schemas.Product) error {
	categoryID, err := parseID(product.CategoryID)
	if err != nil {
		return err
	}
	images, err := encodeImages(product.Images)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	id := uuid.NewString()
	queryString := `INSERT INTO products (id, name, description, price, discounted_price, category_id,
		quantity, in_stock, sold, images, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`
	_, err = s.pool.Exec(ctx, queryString, id, product.Name, product.Description, product.Price, product.DiscountedPrice,
		categoryID, product.Quantity, product.InStock, product.Sold, images, product.IsFeatured, now)
	if err != nil {
		return translate(err, "insert product")
	}

	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*schemas.Product, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	product, err := scanProduct(s.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		return nil, translate(err, "find product")
	}

	products, err := s.populate(ctx, []schemas.Product{*product})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// escapeLike makes the keyword match literally inside an ILIKE pattern.
func escapeLike(keyword string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(keyword)
}

// listWhere builds the WHERE clause of a product listing and its arguments.
func listWhere(query stores.ProductQuery) (string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	if query.CategoryID != "" {
		categoryID, err := parseID(query.CategoryID)
		if err != nil {
			return "", nil, err
		}
		args = append(args, categoryID)
		conditions = append(conditions, "category_id = $"+strconv.Itoa(len(args)))
	}
	if query.Keyword != "" {
		args = append(args, "%"+escapeLike(query.Keyword)+"%")
		placeholder := "$" + strconv.Itoa(len(args))
		conditions = append(conditions, "(name ILIKE "+placeholder+" OR description ILIKE "+placeholder+")")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func listOrder(sort string) string {
	switch sort {
	case stores.SortPriceDesc:
		return " ORDER BY price DESC, id"
	case stores.SortPriceAsc:
		return " ORDER BY price ASC, id"
	case stores.SortOldest:
		return " ORDER BY created_at ASC, id"
	case stores.SortAlphabetical:
		return " ORDER BY LOWER(name) ASC, id"
	default:
		return " ORDER BY created_at DESC, id DESC"
	}
}

func (s *ProductStore) List(ctx context.Context, query stores.ProductQuery) ([]schemas.Product, int64, error) {
	where, args, err := listWhere(query)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "count products")
	}

	args = append(args, query.Limit, query.Offset())
	queryString := "SELECT " + productColumns + " FROM products" + where + listOrder(query.Sort) +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, queryString, args...)
	if err != nil {
		return nil, 0, translate(err, "find products")
	}
	defer rows.Close()

	products := make([]schemas.Product, 0, query.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, translate(err, "scan product")
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err, "find products")
	}

	products, err = s.populate(ctx, products)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductStore) Update(ctx context.Context, id string, update stores.ProductUpdate) (*schemas.Product, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	args := []interface{}{id, time.Now().UTC()}
	assignments := []string{"updated_at = $2"}
	set := func(column string, value interface{}) {
		args = append(args, value)
		assignments = append(assignments, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.DiscountedPrice != nil {
		set("discounted_price", *update.DiscountedPrice)
	}
	if update.Quantity != nil {
		set("quantity", *update.Quantity)
	}
	if update.CategoryID != nil {
		categoryID, err := parseID(*update.CategoryID)
		if err != nil {
			return nil, err
		}
		set("category_id", categoryID)
	}
	if update.InStock != nil {
		set("in_stock", *update.InStock)
	}
	if update.IsFeatured != nil {
		set("is_featured", *update.IsFeatured)
	}
	if update.Images != nil {
		images, err := encodeImages(update.Images)
		if err != nil {
			return nil, err
		}
		set("images", images)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	queryString := "UPDATE products SET " + strings.Join(assignments, ", ") + " WHERE id = $1 RETURNING " + productColumns
	product, err := scanProduct(s.pool.QueryRow(ctx, queryString, args...))
	if err != nil {
		return nil, translate(err, "update product")
	}

	products, err := s.populate(ctx, []schemas.Product{*product})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) (*schemas.Product, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	product, err := scanProduct(s.pool.QueryRow(ctx, "DELETE FROM products WHERE id = $1 RETURNING "+productColumns, id))
	if err != nil {
		return nil, translate(err, "delete product")
	}
	return product, nil
}

// populate attaches the categories of the products with a single lookup.
func (s *ProductStore) populate(ctx context.Context, products []schemas.Product) ([]schemas.Product, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range products {
		if p.CategoryID != "" && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}

	categories, err := s.categories.findMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Category = categories[products[i].CategoryID]
	}
	return products, nil
}
