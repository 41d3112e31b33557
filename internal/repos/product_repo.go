package repos

import (
	"context"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/jmoiron/sqlx"

	"stocktrack/internal/domain"
)

const productColumns = `id, name, unit, category, brand, stock, status, image`

// sortColumns maps accepted sort keys to SQL. Anything else falls back to id.
var sortColumns = map[string]string{
	"id":       "id",
	"name":     "name",
	"unit":     "unit",
	"category": "category",
	"brand":    "brand",
	"stock":    "stock",
	"status":   "status",
	"image":    "image",
}

// ProductRepo owns product rows. Name uniqueness is enforced by the schema.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// FindByName returns nil, nil when no product has exactly this name.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	err := conn(ctx, r.db).GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE name = ?`, name)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	return &p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := conn(ctx, r.db).GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if isNoRows(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	return &p, nil
}

// FindByIDs returns the products that exist among ids, ascending by id.
func (r *ProductRepo) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	out := []domain.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?) ORDER BY id ASC`, ids)
	if err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	if err := conn(ctx, r.db).SelectContext(ctx, &out, query, args...); err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	return out, nil
}

// ListAll is used by the full export.
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	if err := conn(ctx, r.db).SelectContext(ctx, &out, `SELECT `+productColumns+` FROM products ORDER BY id ASC`); err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	return out, nil
}

func (r *ProductRepo) ListPage(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error) {
	where := []string{}
	args := []any{}
	if q.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, q.Category)
	}
	if q.Name != "" {
		where = append(where, `name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Name)+"%")
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = ` WHERE ` + strings.Join(where, ` AND `)
	}

	col, ok := sortColumns[q.Sort]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	limit := min(q.Limit, domain.MaxPageSize)
	if limit <= 0 {
		limit = 5
	}
	page := min(max(q.Page, 1), domain.MaxPage)

	db := conn(ctx, r.db)
	var total int
	if err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`+whereSQL, args...); err != nil {
		return domain.ProductPage{}, storeErr(whereami.WhereAmI(), err)
	}

	items := []domain.Product{}
	// id breaks ties so pages never overlap
	query := `SELECT ` + productColumns + ` FROM products` + whereSQL +
		` ORDER BY ` + col + ` ` + dir + `, id ` + dir + ` LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &items, query, append(args, limit, (page-1)*limit)...); err != nil {
		return domain.ProductPage{}, storeErr(whereami.WhereAmI(), err)
	}

	return domain.ProductPage{
		Products:    items,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalItems:  total,
	}, nil
}

// Insert returns the new id, or domain.ErrDuplicateName if the name is taken.
func (r *ProductRepo) Insert(ctx context.Context, f domain.ProductFields) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO products(name, unit, category, brand, stock, status, image)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.Name, f.Unit, f.Category, f.Brand, f.Stock, f.Status, f.Image)
	if isUniqueViolation(err) {
		return 0, domain.ErrDuplicateName
	}
	if err != nil {
		return 0, storeErr(whereami.WhereAmI(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(whereami.WhereAmI(), err)
	}
	return id, nil
}

// Replace overwrites every mutable column and returns the row as it was before.
func (r *ProductRepo) Replace(ctx context.Context, id int64, f domain.ProductFields) (domain.Product, error) {
	prev, err := r.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET name = ?, unit = ?, category = ?, brand = ?, stock = ?, status = ?, image = ?
		WHERE id = ?
	`, f.Name, f.Unit, f.Category, f.Brand, f.Stock, f.Status, f.Image, id)
	if isUniqueViolation(err) {
		return domain.Product{}, domain.ErrDuplicateName
	}
	if err != nil {
		return domain.Product{}, storeErr(whereami.WhereAmI(), err)
	}
	return *prev, nil
}

// Remove is a no-op when the product is already gone.
func (r *ProductRepo) Remove(ctx context.Context, id int64) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return storeErr(whereami.WhereAmI(), err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
