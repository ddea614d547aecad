package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
)

// MaxImageSize bounds product image uploads.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CatalogUseCase manages products and their images.
type CatalogUseCase struct {
	products repository.ProductRepository
	blobs    BlobStore
	logger   *slog.Logger
	clock    Clock
	newID    func() string
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, blobs BlobStore, logger *slog.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		products: products,
		blobs:    blobs,
		logger:   logger,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// List returns products newest first.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

// Get returns a single product.
func (u *CatalogUseCase) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create adds a product. A capped product starts the week with remaining equal
// to its cap.
func (u *CatalogUseCase) Create(ctx context.Context, input model.ProductInput) (*model.Product, error) {
	input, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	now := u.clock()
	product := &model.Product{
		ID:          u.newID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		WeeklyCap:   input.WeeklyCap,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.WeeklyCap != nil {
		product.WeeklyRemaining = *input.WeeklyCap
		if input.WeeklyRemaining != nil {
			product.WeeklyRemaining = *input.WeeklyRemaining
		}
	}

	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}
	u.logger.Info("product created", slog.String("product_id", product.ID), slog.String("name", product.Name))
	return product, nil
}

// Update replaces the editable fields of a product. Removing the cap zeroes
// remaining; when remaining is omitted it is clamped to the new cap.
func (u *CatalogUseCase) Update(ctx context.Context, id string, input model.ProductInput) (*model.Product, error) {
	input, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}

	product, err := u.products.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}
	u.logger.Info("product updated", slog.String("product_id", id))
	return product, nil
}

// Delete removes a product and, best effort, its image.
func (u *CatalogUseCase) Delete(ctx context.Context, id string) error {
	product, err := u.products.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrProductNotFound
		}
		return err
	}
	u.logger.Info("product deleted", slog.String("product_id", id))

	if product.Image != "" {
		if err := u.blobs.Delete(ctx, product.Image); err != nil {
			u.logger.Warn("delete product image failed",
				slog.String("product_id", id),
				slog.String("image", product.Image),
				slog.Any("error", err))
		}
	}
	return nil
}

// AttachImage stores a jpeg, png or webp image and replaces the previous one.
func (u *CatalogUseCase) AttachImage(ctx context.Context, id, filename string, data []byte) (*model.Product, error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: size must be between 1 byte and 5 MiB", domainErrors.ErrInvalidImage)
	}
	detected := mimetype.Detect(data)
	ext, ok := imageExtensions[detected.String()]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %s", domainErrors.ErrInvalidImage, detected.String())
	}

	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}

	ref, err := u.blobs.Put(ctx, u.newID()+ext, data, detected.String())
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	previous, err := u.products.SetImage(ctx, id, ref)
	if err != nil {
		if delErr := u.blobs.Delete(ctx, ref); delErr != nil {
			u.logger.Warn("discard orphaned image failed", slog.String("image", ref), slog.Any("error", delErr))
		}
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	u.logger.Info("product image attached",
		slog.String("product_id", id),
		slog.String("image", ref),
		slog.String("filename", filename))

	if previous != "" && previous != ref {
		if err := u.blobs.Delete(ctx, previous); err != nil {
			u.logger.Warn("delete previous image failed", slog.String("image", previous), slog.Any("error", err))
		}
	}

	return u.Get(ctx, id)
}

func validateProductInput(input model.ProductInput) (model.ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" {
		return input, fmt.Errorf("%w: name is required", domainErrors.ErrInvalidProduct)
	}
	if input.Price.IsNegative() || !input.Price.Equal(input.Price.Round(2)) {
		return input, fmt.Errorf("%w: price must be a non-negative amount with at most two decimals", domainErrors.ErrInvalidProduct)
	}
	if input.WeeklyCap != nil && *input.WeeklyCap < 0 {
		return input, fmt.Errorf("%w: weekly cap must not be negative", domainErrors.ErrInvalidProduct)
	}
	if input.WeeklyRemaining != nil {
		switch {
		case input.WeeklyCap == nil:
			return input, domainErrors.ErrUncapped
		case *input.WeeklyRemaining < 0:
			return input, domainErrors.ErrInvalidAmount
		case *input.WeeklyRemaining > *input.WeeklyCap:
			return input, domainErrors.ErrExceedsCap
		}
	}
	return input, nil
}
