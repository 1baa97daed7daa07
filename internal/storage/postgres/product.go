package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

type productRepository struct {
	storage *Storage
}

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.type, p.source, p.image, p.show, p.identifier, p.created_at,
        c.id, COALESCE(c.name, ''), COALESCE(c.slug, ''), COALESCE(c.is_one_time_purchase, FALSE)`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, extra ...any) (model.Product, error) {
	var (
		p          model.Product
		categoryID *int64
		category   model.Category
	)
	dest := []any{
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Type, &p.Source, &p.Image, &p.Show, &p.Identifier, &p.CreatedAt,
		&categoryID, &category.Name, &category.Slug, &category.IsOneTimePurchase,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Product{}, err
	}
	if categoryID != nil {
		category.ID = *categoryID
		p.Category = &category
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// productWhere builds the listing predicate. Attribute filters are applied in key order.
func productWhere(filter model.ProductFilter) (string, []any) {
	clauses := []string{"p.show = TRUE"}
	var args []any

	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		clauses = append(clauses, fmt.Sprintf("c.slug = $%d", len(args)))
	}

	labels := make([]string, 0, len(filter.Attributes))
	for label := range filter.Attributes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		args = append(args, label, filter.Attributes[label])
		clauses = append(clauses, fmt.Sprintf(`EXISTS (SELECT 1 FROM product_attributes pa
            JOIN attribute_options ao ON ao.id = pa.attribute_option_id
            JOIN attributes a ON a.id = ao.attribute_id
            WHERE pa.product_id = p.id AND a.label = $%d AND ao.value = $%d)`, len(args)-1, len(args)))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	where, args := productWhere(filter)

	var page model.ProductPage
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*)`+productFrom+where, args...).Scan(&page.Count); err != nil {
		return nil, err
	}

	limitArgs := append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + productColumns + productFrom + where +
		fmt.Sprintf(` ORDER BY p.id DESC LIMIT $%d OFFSET $%d`, len(limitArgs)-1, len(limitArgs))
	rows, err := r.storage.pool.Query(ctx, query, limitArgs...)
	if err != nil {
		return nil, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	refs := make([]*model.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	page.Products = products
	return &page, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := r.getOne(ctx, `SELECT `+productColumns+productFrom+` WHERE p.slug = $1 AND p.show = TRUE`, slug)
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, []*model.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.Product, error) {
	product, err := r.getOne(ctx, `SELECT `+productColumns+productFrom+` WHERE p.identifier = $1`, identifier)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*model.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) getOne(ctx context.Context, query string, arg any) (*model.Product, error) {
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.storage.pool.Query(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = ANY($1) ORDER BY p.id`, ids)
	if err != nil {
		return nil, err
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	refs := make([]*model.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return products, nil
}

// loadItems fills Items of the packages among products.
func (r *productRepository) loadItems(ctx context.Context, products []*model.Product) error {
	byID := make(map[int64]*model.Product)
	var packageIDs []int64
	for _, p := range products {
		if p.IsPackage() {
			byID[p.ID] = p
			packageIDs = append(packageIDs, p.ID)
		}
	}
	if len(packageIDs) == 0 {
		return nil
	}

	query := `SELECT ` + productColumns + `, pi.package_id FROM product_items pi
        JOIN products p ON p.id = pi.item_id
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE pi.package_id = ANY($1) ORDER BY pi.package_id, p.id`
	rows, err := r.storage.pool.Query(ctx, query, packageIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var packageID int64
		item, err := scanProduct(rows, &packageID)
		if err != nil {
			return err
		}
		if item.IsPackage() {
			r.storage.logger.Warn("nested package item skipped",
				"package_id", packageID, "item_id", item.ID)
			continue
		}
		if pkg, ok := byID[packageID]; ok {
			pkg.Items = append(pkg.Items, item)
		}
	}
	return rows.Err()
}

func (r *productRepository) loadDetails(ctx context.Context, products []*model.Product) error {
	if err := r.loadItems(ctx, products); err != nil {
		return err
	}
	for _, p := range products {
		options, err := r.options(ctx, p.ID)
		if err != nil {
			return err
		}
		p.Options = options
	}
	return nil
}

func (r *productRepository) options(ctx context.Context, productID int64) ([]model.AttributeOption, error) {
	const query = `SELECT ao.id, ao.attribute_id, a.label, ao.label, ao.value
        FROM product_attributes pa
        JOIN attribute_options ao ON ao.id = pa.attribute_option_id
        JOIN attributes a ON a.id = ao.attribute_id
        WHERE pa.product_id = $1 ORDER BY a.id, ao.id`
	rows, err := r.storage.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AttributeOption
	for rows.Next() {
		var o model.AttributeOption
		if err := rows.Scan(&o.ID, &o.AttributeID, &o.AttributeLabel, &o.Label, &o.Value); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const recommendationsQuery = `SELECT ` + productColumns + productFrom + `
        WHERE p.show = TRUE
          AND p.id <> $1
          AND p.category_id = (SELECT category_id FROM products WHERE id = $1)
          AND p.id NOT IN (SELECT item_id FROM product_items WHERE package_id = $1)
          AND EXISTS (SELECT 1 FROM product_attributes own
                JOIN product_attributes other ON other.attribute_option_id = own.attribute_option_id
                WHERE own.product_id = $1 AND other.product_id = p.id)
        ORDER BY p.id DESC LIMIT $2`

// Recommendations skips the product itself and, for a package, its own items.
func (r *productRepository) Recommendations(ctx context.Context, productID int64, limit int) ([]model.Product, error) {
	rows, err := r.storage.pool.Query(ctx, recommendationsQuery, productID, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT id, name, slug, is_one_time_purchase FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	index := make(map[int64]int)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsOneTimePurchase); err != nil {
			return nil, err
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	const attributesQuery = `SELECT a.id, a.category_id, a.name, a.label, ao.id, ao.label, ao.value
        FROM attributes a LEFT JOIN attribute_options ao ON ao.attribute_id = a.id
        ORDER BY a.category_id, a.id, ao.id`
	attrRows, err := r.storage.pool.Query(ctx, attributesQuery)
	if err != nil {
		return nil, err
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var (
			a                     model.Attribute
			optionID              *int64
			optionLabel, optValue *string
		)
		if err := attrRows.Scan(&a.ID, &a.CategoryID, &a.Name, &a.Label, &optionID, &optionLabel, &optValue); err != nil {
			return nil, err
		}
		pos, ok := index[a.CategoryID]
		if !ok {
			continue
		}
		attrs := categories[pos].Attributes
		if n := len(attrs); n == 0 || attrs[n-1].ID != a.ID {
			attrs = append(attrs, a)
		}
		if optionID != nil {
			last := &attrs[len(attrs)-1]
			last.Options = append(last.Options, model.AttributeOption{
				ID:             *optionID,
				AttributeID:    a.ID,
				AttributeLabel: a.Label,
				Label:          deref(optionLabel),
				Value:          deref(optValue),
			})
		}
		categories[pos].Attributes = attrs
	}
	if err := attrRows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
