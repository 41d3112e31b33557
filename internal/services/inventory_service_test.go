package services_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stocktrack/internal/domain"
	"stocktrack/internal/repos"
	"stocktrack/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newService(t *testing.T) *services.InventoryService {
	t.Helper()
	db := memdb(t)
	return services.NewInventoryService(repos.NewProductRepo(db), repos.NewHistoryRepo(db), repos.NewTxManager(db))
}

func widget(stock int) domain.ProductFields {
	return domain.ProductFields{Name: "Widget", Unit: "pcs", Category: "parts", Brand: "Acme", Stock: stock, Status: "In Stock"}
}

// Create -> no-op update -> stock update -> history -> delete.
func TestInventoryService_UpdateHistoryDeleteScenario(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	id, err := svc.Create(ctx, widget(5), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("want id=1, got %d", id)
	}

	if err := svc.Update(ctx, id, widget(5), "alice"); err != nil {
		t.Fatal(err)
	}
	h, err := svc.GetHistory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 0 {
		t.Fatalf("unchanged stock must not log history, got %+v", h)
	}

	if err := svc.Update(ctx, id, widget(12), "alice"); err != nil {
		t.Fatal(err)
	}
	h, err = svc.GetHistory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 1 {
		t.Fatalf("want 1 history row, got %d", len(h))
	}
	if h[0].OldQuantity != 5 || h[0].NewQuantity != 12 || h[0].Actor != "alice" || h[0].ProductID != id {
		t.Fatalf("bad history row: %+v", h[0])
	}
	if h[0].ChangeDate == "" {
		t.Fatal("change_date not set")
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	h, err = svc.GetHistory(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 0 {
		t.Fatalf("history must go with the product, got %+v", h)
	}
	if _, err := svc.Get(ctx, id); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}

	// idempotent
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestInventoryService_EachStockChangeIsOneEntry(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _ := svc.Create(ctx, widget(0), "alice")

	for _, q := range []int{3, 3, -2, 7, 7} {
		if err := svc.Update(ctx, id, widget(q), "bob"); err != nil {
			t.Fatal(err)
		}
	}
	h, _ := svc.GetHistory(ctx, id)
	// 0->3, 3->-2, -2->7
	if len(h) != 3 {
		t.Fatalf("want 3 entries, got %d: %+v", len(h), h)
	}
	if h[0].OldQuantity != -2 || h[0].NewQuantity != 7 {
		t.Fatalf("newest entry first, got %+v", h[0])
	}
	if h[2].OldQuantity != 0 || h[2].NewQuantity != 3 {
		t.Fatalf("oldest entry last, got %+v", h[2])
	}
}

func TestInventoryService_CreateRules(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	if _, err := svc.Create(ctx, domain.ProductFields{Name: "   "}, "alice"); err != domain.ErrNameRequired {
		t.Fatalf("want ErrNameRequired, got %v", err)
	}
	id, err := svc.Create(ctx, domain.ProductFields{Name: "Bolt"}, "")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := svc.Get(ctx, id)
	if p.Stock != 0 {
		t.Fatalf("stock defaults to 0, got %d", p.Stock)
	}
	if _, err := svc.Create(ctx, domain.ProductFields{Name: "Bolt", Stock: 4}, "alice"); err != domain.ErrDuplicateName {
		t.Fatalf("want ErrDuplicateName, got %v", err)
	}
	h, _ := svc.GetHistory(ctx, id)
	if len(h) != 0 {
		t.Fatalf("create must not log history, got %+v", h)
	}
}

func TestInventoryService_UpdateRules(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	id, _ := svc.Create(ctx, widget(5), "alice")
	_, _ = svc.Create(ctx, domain.ProductFields{Name: "Gadget"}, "alice")

	if err := svc.Update(ctx, id, widget(9), ""); err != domain.ErrUnauthenticated {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
	if err := svc.Update(ctx, 999, widget(9), "alice"); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := svc.Update(ctx, id, domain.ProductFields{Name: "", Stock: 9}, "alice"); err != domain.ErrNameRequired {
		t.Fatalf("want ErrNameRequired, got %v", err)
	}

	// renaming onto another product fails and leaves no history behind
	clash := widget(9)
	clash.Name = "Gadget"
	if err := svc.Update(ctx, id, clash, "alice"); err != domain.ErrDuplicateName {
		t.Fatalf("want ErrDuplicateName, got %v", err)
	}
	h, _ := svc.GetHistory(ctx, id)
	if len(h) != 0 {
		t.Fatalf("failed update must not log history, got %+v", h)
	}
	p, _ := svc.Get(ctx, id)
	if p.Stock != 5 || p.Name != "Widget" {
		t.Fatalf("failed update must not change the product, got %+v", p)
	}

	// full overwrite: omitted fields are cleared
	if err := svc.Update(ctx, id, domain.ProductFields{Name: "Widget", Stock: 5}, "alice"); err != nil {
		t.Fatal(err)
	}
	p, _ = svc.Get(ctx, id)
	if p.Unit != "" || p.Brand != "" || p.Category != "" || p.Status != "" {
		t.Fatalf("update replaces every field, got %+v", p)
	}
}

func TestInventoryService_GetHistoryUnknownProduct(t *testing.T) {
	h, err := newService(t).GetHistory(context.Background(), 12345)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 0 {
		t.Fatalf("want empty history, got %+v", h)
	}
}

func TestInventoryService_ConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, domain.ProductFields{Name: "Race"}, "alice")
			switch err {
			case nil:
				ok.Add(1)
			case domain.ErrDuplicateName:
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok.Load() != 1 || dup.Load() != 7 {
		t.Fatalf("want exactly one winner, got ok=%d dup=%d", ok.Load(), dup.Load())
	}
}

func TestInventoryService_ExportByIDs(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	a, _ := svc.Create(ctx, domain.ProductFields{Name: "A", Stock: 1}, "alice")
	_, _ = svc.Create(ctx, domain.ProductFields{Name: "B", Stock: 2}, "alice")
	c, _ := svc.Create(ctx, domain.ProductFields{Name: "C", Stock: 3}, "alice")

	out, err := svc.Export(ctx, []int64{c, a})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	want := []string{"name,unit,category,brand,stock,status,image", "A,,,,1,,", "C,,,,3,,"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected export:\n%s", out)
	}

	if _, err := svc.Export(ctx, []int64{404}); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInventoryService_ExportEmptyStore(t *testing.T) {
	out, err := newService(t).Export(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(out)) != "name,unit,category,brand,stock,status,image" {
		t.Fatalf("want header only, got %q", out)
	}
}
