package service

import (
	"context"
	"testing"

	"art-store/internal/domain"
	"art-store/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo serves a fixed catalog keyed by slug
type fakeProductRepo struct {
	repository.ProductRepository
	products map[string]*domain.Product
}

func (f *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, ok := f.products[slug]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// fakeCartRepo keeps one open cart per user in memory
type fakeCartRepo struct {
	repository.CartRepository
	carts map[uuid.UUID]*domain.Cart
	lines map[uuid.UUID]*domain.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: make(map[uuid.UUID]*domain.Cart),
		lines: make(map[uuid.UUID]*domain.CartItem),
	}
}

func (f *fakeCartRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	for _, cart := range f.carts {
		if cart.UserID == userID && !cart.Finalized {
			return cart, nil
		}
	}
	return nil, repository.ErrCartNotFound
}

func (f *fakeCartRepo) CreateOpen(ctx context.Context, cart *domain.Cart) error {
	f.carts[cart.ID] = cart
	return nil
}

func (f *fakeCartRepo) FindOpenLine(ctx context.Context, cartID, productID uuid.UUID) (*domain.CartItem, error) {
	for _, line := range f.lines {
		if line.CartID == cartID && line.ProductID == productID && !line.Finalized {
			return line, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (f *fakeCartRepo) InsertLine(ctx context.Context, item *domain.CartItem) error {
	f.lines[item.ID] = item
	return nil
}

func (f *fakeCartRepo) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	line, ok := f.lines[lineID]
	if !ok {
		return repository.ErrCartItemNotFound
	}
	line.Quantity = quantity
	return nil
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	if _, ok := f.lines[lineID]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(f.lines, lineID)
	return nil
}

func (f *fakeCartRepo) openLines(userID uuid.UUID) []*domain.CartItem {
	var lines []*domain.CartItem
	for _, line := range f.lines {
		if line.UserID == userID && !line.Finalized {
			lines = append(lines, line)
		}
	}
	return lines
}

func fixedCatalog() *fakeProductRepo {
	price := decimal.NewFromInt(20)
	return &fakeProductRepo{products: map[string]*domain.Product{
		"the-starry-night": {
			ID:            uuid.New(),
			Name:          "The Starry Night",
			ShortenedName: "The Starry Night",
			Slug:          "the-starry-night",
			Price:         price,
		},
		"the-kiss": {
			ID:            uuid.New(),
			Name:          "The Kiss",
			ShortenedName: "The Kiss",
			Slug:          "the-kiss",
			Price:         decimal.NewFromInt(35),
		},
	}}
}

func TestAddItemCreatesCartAndIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo, fixedCatalog())
	userID := uuid.New()

	mutation, err := svc.AddItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)
	assert.Equal(t, CartItemAdded, mutation)

	mutation, err = svc.AddItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)
	assert.Equal(t, CartQuantityUpdated, mutation)

	lines := cartRepo.openLines(userID)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := NewCartService(newFakeCartRepo(), fixedCatalog())

	_, err := svc.AddItem(context.Background(), uuid.New(), "no-such-print")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestRemoveItemWithoutCartIsANotice(t *testing.T) {
	svc := NewCartService(newFakeCartRepo(), fixedCatalog())

	err := svc.RemoveItem(context.Background(), uuid.New(), "the-starry-night")
	assert.ErrorIs(t, err, ErrNoOpenCart)
}

func TestRemoveItemNotInCartIsANotice(t *testing.T) {
	ctx := context.Background()
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo, fixedCatalog())
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)

	err = svc.RemoveItem(ctx, userID, "the-kiss")
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestRemoveSingleItemDropsLineAtOne(t *testing.T) {
	ctx := context.Background()
	cartRepo := newFakeCartRepo()
	svc := NewCartService(cartRepo, fixedCatalog())
	userID := uuid.New()

	_, err := svc.AddItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)

	_, err = svc.RemoveSingleItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)
	require.Len(t, cartRepo.openLines(userID), 1)
	assert.Equal(t, 1, cartRepo.openLines(userID)[0].Quantity)

	_, err = svc.RemoveSingleItem(ctx, userID, "the-starry-night")
	require.NoError(t, err)
	assert.Empty(t, cartRepo.openLines(userID))
}

func TestProperty_CartQuantityNeverNegativeAndNoDuplicateLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	slugs := []string{"the-starry-night", "the-kiss"}

	properties.Property("any add/remove sequence keeps quantities positive and lines unique", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			cartRepo := newFakeCartRepo()
			svc := NewCartService(cartRepo, fixedCatalog())
			userID := uuid.New()

			for _, op := range ops {
				slug := slugs[op%len(slugs)]
				switch op % 3 {
				case 0:
					if _, err := svc.AddItem(ctx, userID, slug); err != nil {
						return false
					}
				case 1:
					if _, err := svc.RemoveSingleItem(ctx, userID, slug); err != nil &&
						err != ErrNoOpenCart && err != ErrItemNotInCart {
						return false
					}
				case 2:
					if err := svc.RemoveItem(ctx, userID, slug); err != nil &&
						err != ErrNoOpenCart && err != ErrItemNotInCart {
						return false
					}
				}
			}

			seen := make(map[uuid.UUID]bool)
			for _, line := range cartRepo.openLines(userID) {
				if line.Quantity < 1 {
					return false
				}
				if seen[line.ProductID] {
					return false
				}
				seen[line.ProductID] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 29)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCartSubtotalUsesEffectivePrice(t *testing.T) {
	discount := decimal.RequireFromString("15.50")
	cart := &domain.Cart{
		Items: []*domain.CartItem{
			{
				Quantity: 2,
				Product:  &domain.Product{Price: decimal.NewFromInt(20)},
			},
			{
				Quantity: 1,
				Product: &domain.Product{
					Price:         decimal.NewFromInt(35),
					DiscountPrice: &discount,
				},
			},
		},
	}

	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("55.50")))
}

func TestCartTotalSubtractsCouponOnce(t *testing.T) {
	cart := &domain.Cart{
		Items: []*domain.CartItem{
			{Quantity: 2, Product: &domain.Product{Price: decimal.NewFromInt(20)}},
		},
		Coupon: &domain.Coupon{Code: "SAVE10", Amount: decimal.NewFromInt(10)},
	}

	assert.True(t, cart.Total().Equal(decimal.NewFromInt(30)))
	// Applying the same coupon is idempotent for the computed total
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(30)))
}
