package domain

// Product is one stocked item.
type Product struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Unit     string `db:"unit" json:"unit"`
	Category string `db:"category" json:"category"`
	Brand    string `db:"brand" json:"brand"`
	Stock    int    `db:"stock" json:"stock"`
	Status   string `db:"status" json:"status"`
	Image    string `db:"image" json:"image"`
}

// ProductFields is the mutable part of a Product. Updates overwrite every field.
type ProductFields struct {
	Name     string `json:"name" form:"name"`
	Unit     string `json:"unit" form:"unit"`
	Category string `json:"category" form:"category"`
	Brand    string `json:"brand" form:"brand"`
	Stock    int    `json:"stock" form:"stock"`
	Status   string `json:"status" form:"status"`
	Image    string `json:"image" form:"image"`
}

func (p Product) Fields() ProductFields {
	return ProductFields{
		Name:     p.Name,
		Unit:     p.Unit,
		Category: p.Category,
		Brand:    p.Brand,
		Stock:    p.Stock,
		Status:   p.Status,
		Image:    p.Image,
	}
}

// Status used for imported rows that carry none.
const DefaultImportStatus = "In Stock"

// ListQuery narrows and orders a product page. Sort and Order must already be validated.
type ListQuery struct {
	Category string
	Name     string
	Sort     string // column name, see validate.SortField
	Desc     bool
	Page     int
	Limit    int
}

// Paging bounds. MaxPage*MaxPageSize stays far inside an int64 offset.
const (
	MaxPage     = 1_000_000
	MaxPageSize = 100
)

type ProductPage struct {
	Products    []Product `json:"products"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalItems  int       `json:"totalItems"`
}
