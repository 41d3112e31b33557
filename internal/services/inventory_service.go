package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"stocktrack/internal/csvio"
	"stocktrack/internal/domain"
)

// ProductStore is the persistence the inventory rules run against.
type ProductStore interface {
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	ListPage(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, f domain.ProductFields) (int64, error)
	Replace(ctx context.Context, id int64, f domain.ProductFields) (domain.Product, error)
	Remove(ctx context.Context, id int64) error
}

type HistoryLedger interface {
	Append(ctx context.Context, productID int64, oldQty, newQty int, actor string) error
	ListForProduct(ctx context.Context, productID int64) ([]domain.HistoryEntry, error)
	RemoveForProduct(ctx context.Context, productID int64) error
}

// TxRunner groups store calls made with the ctx it passes to fn into one transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// InventoryService is the only writer of products and their history.
type InventoryService struct {
	Products ProductStore
	History  HistoryLedger
	Tx       TxRunner
}

func NewInventoryService(products ProductStore, history HistoryLedger, tx TxRunner) *InventoryService {
	return &InventoryService{Products: products, History: history, Tx: tx}
}

// Create inserts a new product under its trimmed name. The name pre-check
// gives a clean error; the unique constraint in the store decides races.
func (s *InventoryService) Create(ctx context.Context, f domain.ProductFields, actor string) (int64, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return 0, domain.ErrNameRequired
	}
	existing, err := s.Products.FindByName(ctx, f.Name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, domain.ErrDuplicateName
	}
	return s.Products.Insert(ctx, f)
}

// Update overwrites every mutable field of product id and records a history
// entry when the stock quantity changed. Read, write and ledger append share
// one transaction.
func (s *InventoryService) Update(ctx context.Context, id int64, f domain.ProductFields, actor string) error {
	if actor == "" {
		return domain.ErrUnauthenticated
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return domain.ErrNameRequired
	}
	return s.Tx.InTx(ctx, func(ctx context.Context) error {
		prev, err := s.Products.Replace(ctx, id, f)
		if err != nil {
			return err
		}
		if prev.Stock == f.Stock {
			return nil
		}
		return s.History.Append(ctx, id, prev.Stock, f.Stock, actor)
	})
}

// Delete removes the product and its history. Deleting a missing id is not an error.
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return s.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.Products.Remove(ctx, id); err != nil {
			return err
		}
		return s.History.RemoveForProduct(ctx, id)
	})
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.Products.Get(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error) {
	return s.Products.ListPage(ctx, q)
}

// GetHistory does not check that the product exists; unknown ids yield an empty list.
func (s *InventoryService) GetHistory(ctx context.Context, productID int64) ([]domain.HistoryEntry, error) {
	return s.History.ListForProduct(ctx, productID)
}

// BulkImport adds every CSV row whose name is new. Rows are handled one at a
// time in file order; a row that cannot be added is counted as skipped and
// never stops the rest. Only unreadable CSV fails the whole call.
func (s *InventoryService) BulkImport(ctx context.Context, r io.Reader, actor string) (domain.ImportResult, error) {
	rows, err := csvio.Decode(r)
	if err != nil {
		return domain.ImportResult{}, err
	}

	res := domain.ImportResult{}
	skip := func(row csvio.Row, name, reason string) {
		res.Skipped++
		res.Skips = append(res.Skips, domain.ImportSkip{Line: row.Line, Name: name, Reason: reason})
	}
	for _, row := range rows {
		f := candidateFromRow(row)
		if f.Name == "" {
			skip(row, "", domain.SkipEmptyName)
			continue
		}
		existing, err := s.Products.FindByName(ctx, f.Name)
		if err != nil {
			skip(row, f.Name, domain.SkipFailed)
			continue
		}
		if existing != nil {
			skip(row, f.Name, domain.SkipDuplicate)
			continue
		}
		if _, err := s.Create(ctx, f, actor); err != nil {
			reason := domain.SkipFailed
			if errors.Is(err, domain.ErrDuplicateName) {
				reason = domain.SkipDuplicate
			}
			skip(row, f.Name, reason)
			continue
		}
		res.Added++
	}
	return res, nil
}

// candidateFromRow applies the import defaults. A missing or non-numeric
// stock becomes 0; a missing or empty status becomes DefaultImportStatus.
func candidateFromRow(row csvio.Row) domain.ProductFields {
	name, _ := row.Get("name")
	f := domain.ProductFields{Name: strings.TrimSpace(name)}
	f.Unit, _ = row.Get("unit")
	f.Category, _ = row.Get("category")
	f.Brand, _ = row.Get("brand")
	f.Image, _ = row.Get("image")
	if raw, ok := row.Get("stock"); ok {
		f.Stock = atoiLenient(raw)
	}
	f.Status, _ = row.Get("status")
	if f.Status == "" {
		f.Status = domain.DefaultImportStatus
	}
	return f
}

// atoiLenient reads a leading integer the way a browser's parseInt would:
// "12", " 12 ", "12.7" and "12kg" all give 12. Anything else is 0.
func atoiLenient(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Export serializes products as CSV. With ids, only those products are
// written and finding none is domain.ErrNotFound; without ids, all are.
func (s *InventoryService) Export(ctx context.Context, ids []int64) ([]byte, error) {
	var (
		products []domain.Product
		err      error
	)
	if len(ids) > 0 {
		products, err = s.Products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			return nil, domain.ErrNotFound
		}
	} else {
		products, err = s.Products.ListAll(ctx)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := csvio.Encode(&buf, products); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
