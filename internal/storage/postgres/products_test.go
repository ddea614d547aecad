package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
)

var productRowColumns = []string{"id", "name", "description", "price_cents", "image", "weekly_cap", "weekly_remaining", "created_at", "updated_at"}

func intPtr(v int) *int { return &v }

func TestProductRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	product := &model.Product{
		ID:              "p1",
		Name:            "Sourdough",
		Price:           decimal.RequireFromString("12.50"),
		WeeklyCap:       intPtr(5),
		WeeklyRemaining: 5,
	}

	insertArgs := []any{"p1", "Sourdough", "", int64(1250), "", pgxmockv3.AnyArg(), 5, pgxmockv3.AnyArg()}
	mock.ExpectExec("INSERT INTO products").WithArgs(insertArgs...).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.CreatedAt.IsZero() || !product.UpdatedAt.Equal(product.CreatedAt) {
		t.Fatalf("expected timestamps to be set, got %+v", product)
	}

	mock.ExpectExec("INSERT INTO products").WithArgs(insertArgs...).WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	if err := repo.Create(context.Background(), product); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	mock.ExpectExec("INSERT INTO products").WithArgs(insertArgs...).WillReturnError(&pgconn.PgError{Code: pgCheckViolation})
	if err := repo.Create(context.Background(), product); !errors.Is(err, domainErrors.ErrExceedsCap) {
		t.Fatalf("expected exceeds cap, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("FROM products WHERE id = ").WithArgs("p1").WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).AddRow("p1", "Sourdough", "Tangy", int64(1250), "p1.jpg", intPtr(5), 3, now, now))
	product, err := repo.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !product.Price.Equal(decimal.RequireFromString("12.5")) || *product.WeeklyCap != 5 || product.WeeklyRemaining != 3 {
		t.Fatalf("unexpected product: %+v", product)
	}

	mock.ExpectQuery("FROM products WHERE id = ").WithArgs("p2").WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).AddRow("p2", "Baguette", "", int64(400), "", nil, 0, now, now))
	product, err = repo.GetByID(context.Background(), "p2")
	if err != nil || product.Capped() {
		t.Fatalf("expected uncapped product, got %+v err=%v", product, err)
	}

	mock.ExpectQuery("FROM products WHERE id = ").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM products WHERE id = ").WithArgs("down").WillReturnError(errors.New("conn reset"))
	if _, err := repo.GetByID(context.Background(), "down"); !errors.Is(err, domainErrors.ErrStorageUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs([]string{"p1", "p2"}).WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).
			AddRow("p1", "Sourdough", "", int64(1250), "", intPtr(5), 3, now, now).
			AddRow("p2", "Baguette", "", int64(400), "", nil, 0, now, now))
	many, err := repo.GetMany(context.Background(), []string{"p1", "p2"})
	if err != nil || len(many) != 2 || many["p2"].Name != "Baguette" {
		t.Fatalf("unexpected products: %+v err=%v", many, err)
	}

	empty, err := repo.GetMany(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty map without query, got %+v err=%v", empty, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("FROM products ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).
			AddRow("p2", "Baguette", "", int64(400), "", nil, 0, now, now).
			AddRow("p1", "Sourdough", "", int64(1250), "", intPtr(5), 5, now.Add(-time.Hour), now))
	products, err := repo.List(context.Background())
	if err != nil || len(products) != 2 || products[0].ID != "p2" {
		t.Fatalf("unexpected list: %+v err=%v", products, err)
	}

	mock.ExpectQuery("FROM products ORDER BY created_at DESC").WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM products ORDER BY created_at DESC").WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).AddRow("p1", "Sourdough", "", "bad", "", nil, 0, now, now))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &productRepository{storage: storage}

	if _, err := repo.List(context.Background()); !errors.Is(err, domainErrors.ErrStorageUnavailable) {
		t.Fatalf("expected rows err to be unavailable, got %v", err)
	}
}

func TestProductRepositoryUpdate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	now := time.Now()
	updateSQL := regexp.QuoteMeta("WHEN $6::int IS NOT NULL THEN $6::int")
	input := model.ProductInput{Name: "Rye", Description: "Dark", Price: decimal.RequireFromString("9"), WeeklyCap: intPtr(4)}

	mock.ExpectQuery(updateSQL).
		WithArgs("p1", "Rye", "Dark", int64(900), pgxmockv3.AnyArg(), pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows(productRowColumns).AddRow("p1", "Rye", "Dark", int64(900), "", intPtr(4), 3, now, now))
	product, err := repo.Update(context.Background(), "p1", input)
	if err != nil || product.Name != "Rye" || product.WeeklyRemaining != 3 {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}

	mock.ExpectQuery(updateSQL).
		WithArgs("missing", "Rye", "Dark", int64(900), pgxmockv3.AnyArg(), pgxmockv3.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Update(context.Background(), "missing", input); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	input.WeeklyRemaining = intPtr(10)
	mock.ExpectQuery(updateSQL).
		WithArgs("p1", "Rye", "Dark", int64(900), pgxmockv3.AnyArg(), pgxmockv3.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgCheckViolation})
	if _, err := repo.Update(context.Background(), "p1", input); !errors.Is(err, domainErrors.ErrExceedsCap) {
		t.Fatalf("expected exceeds cap, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryDeleteAndImage(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("DELETE FROM products").WithArgs("p1").WillReturnRows(
		pgxmockv3.NewRows(productRowColumns).AddRow("p1", "Sourdough", "", int64(1250), "old.jpg", nil, 0, now, now))
	deleted, err := repo.Delete(context.Background(), "p1")
	if err != nil || deleted.Image != "old.jpg" {
		t.Fatalf("unexpected delete result: %+v err=%v", deleted, err)
	}

	mock.ExpectQuery("DELETE FROM products").WithArgs("p1").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Delete(context.Background(), "p1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	imageSQL := regexp.QuoteMeta("SET image = $2")
	mock.ExpectQuery(imageSQL).WithArgs("p2", "new.png").WillReturnRows(pgxmockv3.NewRows([]string{"image"}).AddRow("old.png"))
	previous, err := repo.SetImage(context.Background(), "p2", "new.png")
	if err != nil || previous != "old.png" {
		t.Fatalf("unexpected previous image %q err=%v", previous, err)
	}

	mock.ExpectQuery(imageSQL).WithArgs("missing", "new.png").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.SetImage(context.Background(), "missing", "new.png"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositorySetRemaining(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	setSQL := regexp.QuoteMeta("BETWEEN 0 AND weekly_cap")
	lookupSQL := regexp.QuoteMeta("SELECT weekly_cap FROM products")

	mock.ExpectExec(setSQL).WithArgs("p1", 2).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.SetRemaining(context.Background(), "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(setSQL).WithArgs("p1", 9).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(lookupSQL).WithArgs("p1").WillReturnRows(pgxmockv3.NewRows([]string{"weekly_cap"}).AddRow(intPtr(5)))
	if err := repo.SetRemaining(context.Background(), "p1", 9); !errors.Is(err, domainErrors.ErrExceedsCap) {
		t.Fatalf("expected exceeds cap, got %v", err)
	}

	mock.ExpectExec(setSQL).WithArgs("p2", 1).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(lookupSQL).WithArgs("p2").WillReturnRows(pgxmockv3.NewRows([]string{"weekly_cap"}).AddRow(nil))
	if err := repo.SetRemaining(context.Background(), "p2", 1); !errors.Is(err, domainErrors.ErrUncapped) {
		t.Fatalf("expected uncapped, got %v", err)
	}

	mock.ExpectExec(setSQL).WithArgs("missing", 1).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(lookupSQL).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	if err := repo.SetRemaining(context.Background(), "missing", 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryResetRemaining(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	resetSQL := regexp.QuoteMeta("SET weekly_remaining = weekly_cap")
	mock.ExpectExec(resetSQL).WillReturnResult(pgxmockv3.NewResult("UPDATE", 3))
	affected, err := repo.ResetRemaining(context.Background())
	if err != nil || affected != 3 {
		t.Fatalf("expected 3 rows, got %d err=%v", affected, err)
	}

	mock.ExpectExec(resetSQL).WillReturnError(errors.New("down"))
	if _, err := repo.ResetRemaining(context.Background()); !errors.Is(err, domainErrors.ErrStorageUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
