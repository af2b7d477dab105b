package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	"github.com/prajwalbasnet/kinmel-backend/pkg/enums"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
	"github.com/prajwalbasnet/kinmel-backend/pkg/types"
)

func TestServicePlaceComputesTotalWithPerLineDelivery(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)

	sale := decimal.NewFromInt(800)
	shirt := f.products.seed(decimal.NewFromInt(1000), 10)
	shirt.IsSale = true
	shirt.SalePrice = &sale
	pants := f.products.seed(decimal.NewFromInt(2500), 5)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products: []OrderLineInput{
			{ProductID: shirt.ID, Quantity: 2},
			{ProductID: pants.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if resp.OrderID == uuid.Nil {
		t.Fatal("expected an order id")
	}

	order := f.repo.byID[resp.OrderID]
	if order == nil {
		t.Fatal("expected order to be persisted")
	}
	// 2x800 + 1x2500 + 100 delivery per line (2 lines)
	want := decimal.NewFromInt(4300)
	if !order.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.TotalAmount)
	}
	if order.PaymentStatus != enums.PaymentStatusPending || order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending statuses, got %s/%s", order.PaymentStatus, order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected two order items, got %d", len(order.Items))
	}
}

func TestServicePlaceUnknownProductAbortsEverything(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	known := f.products.seed(decimal.NewFromInt(500), 3)

	_, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products: []OrderLineInput{
			{ProductID: known.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if len(f.repo.byID) != 0 {
		t.Fatal("expected nothing persisted on missing product")
	}
}

func TestServicePlaceForeignAddressIsNotFound(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	addr := f.addresses.seed(uuid.New())
	product := f.products.seed(decimal.NewFromInt(500), 3)

	_, err := f.svc.Place(context.Background(), uuid.New(), PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServicePlaceDoesNotTouchStock(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 2)

	// ordering more than available still succeeds at placement
	_, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 5}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if product.Stock != 2 {
		t.Fatalf("expected stock untouched at placement, got %d", product.Stock)
	}
}

func TestServiceUpdateStatusPaidDeductsStock(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 10)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	paid := "Paid"
	dto, err := f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if dto.PaymentStatus != "Paid" {
		t.Fatalf("expected Paid, got %s", dto.PaymentStatus)
	}
	if product.Stock != 7 {
		t.Fatalf("expected stock deducted to 7, got %d", product.Stock)
	}
}

func TestServiceUpdateStatusUnderStockedLineConflicts(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	plenty := f.products.seed(decimal.NewFromInt(500), 10)
	scarce := f.products.seed(decimal.NewFromInt(700), 1)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products: []OrderLineInput{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	paid := "Paid"
	_, err = f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{PaymentStatus: &paid})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["product"] != scarce.ID.String() {
		t.Fatalf("expected conflict naming product %s, got %v", scarce.ID, typed.Details())
	}

	// the rollback left every product untouched
	if plenty.Stock != 10 || scarce.Stock != 1 {
		t.Fatalf("expected stock rolled back, got %d/%d", plenty.Stock, scarce.Stock)
	}
	order := f.repo.byID[resp.OrderID]
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected payment status unchanged, got %s", order.PaymentStatus)
	}
}

func TestServiceUpdateStatusRePaidDoesNotRededuct(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 10)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	paid := "Paid"
	if _, err := f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{PaymentStatus: &paid}); err != nil {
		t.Fatalf("first confirmation: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{PaymentStatus: &paid}); err != nil {
		t.Fatalf("re-confirmation: %v", err)
	}
	if product.Stock != 7 {
		t.Fatalf("expected a single deduction, got stock %d", product.Stock)
	}
}

func TestServiceUpdateStatusFulfillmentOnlyLeavesStockAlone(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 10)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	shipped := "Shipped"
	dto, err := f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{Status: &shipped})
	if err != nil {
		t.Fatalf("ship order: %v", err)
	}
	if dto.Status != "Shipped" {
		t.Fatalf("expected Shipped, got %s", dto.Status)
	}
	if dto.PaymentStatus != "Pending" {
		t.Fatalf("expected payment status untouched, got %s", dto.PaymentStatus)
	}
	if product.Stock != 10 {
		t.Fatalf("expected stock untouched, got %d", product.Stock)
	}
}

func TestServiceUpdateStatusInvalidEnum(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 10)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	bad := "Refunded"
	_, err = f.svc.UpdateStatus(context.Background(), resp.OrderID, UpdateOrderStatusRequest{PaymentStatus: &bad})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceGetScopedToOwnerUnlessAdmin(t *testing.T) {
	f := newFixture(t, decimal.NewFromInt(100))
	userID := uuid.New()
	addr := f.addresses.seed(userID)
	product := f.products.seed(decimal.NewFromInt(500), 10)

	resp, err := f.svc.Place(context.Background(), userID, PlaceOrderRequest{
		AddressID: addr.ID,
		Products:  []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), userID, false, resp.OrderID); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	_, err = f.svc.Get(context.Background(), uuid.New(), false, resp.OrderID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}

	if _, err := f.svc.Get(context.Background(), uuid.New(), true, resp.OrderID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

type fixture struct {
	svc       Service
	repo      *stubOrderRepo
	addresses *stubAddresses
	products  *stubProducts
}

func newFixture(t *testing.T, deliveryCharge decimal.Decimal) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newStubOrderRepo(),
		addresses: &stubAddresses{byID: map[uuid.UUID]*models.Address{}},
		products:  newStubProducts(),
	}
	f.repo.products = f.products
	svc, err := NewService(ServiceParams{
		Repo:           f.repo,
		Addresses:      f.addresses,
		Products:       f.products,
		DeliveryCharge: deliveryCharge,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	f.svc = svc
	return f
}

type stubOrderRepo struct {
	byID     map[uuid.UUID]*models.Order
	products *stubProducts
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	copied := *order
	s.byID[order.ID] = &copied
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.byID {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatuses(ctx context.Context, order *models.Order) error {
	stored, ok := s.byID[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.PaymentStatus = order.PaymentStatus
	stored.Status = order.Status
	return nil
}

// ConfirmPayment mirrors the transactional conditional-update semantics: all
// deductions succeed or none apply.
func (s *stubOrderRepo) ConfirmPayment(ctx context.Context, order *models.Order) error {
	stored, ok := s.byID[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, item := range order.Items {
		product := s.products.byID[item.ProductID]
		if product == nil || product.Stock < item.Quantity {
			return &InsufficientStockError{ProductID: item.ProductID}
		}
	}
	for _, item := range order.Items {
		s.products.byID[item.ProductID].Stock -= item.Quantity
	}
	stored.PaymentStatus = order.PaymentStatus
	stored.Status = order.Status
	return nil
}

type stubAddresses struct {
	byID map[uuid.UUID]*models.Address
}

func (s *stubAddresses) seed(userID uuid.UUID) *models.Address {
	addr := &models.Address{ID: uuid.New(), UserID: userID, AddressName: "Home", City: "Kathmandu"}
	s.byID[addr.ID] = addr
	return addr
}

func (s *stubAddresses) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	if addr, ok := s.byID[id]; ok {
		return addr, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProducts) seed(price decimal.Decimal, stock int) *models.Product {
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Test Product",
		Price: price,
		Stock: stock,
		Sizes: types.SizeStock{"M": stock},
	}
	s.byID[product.ID] = product
	return product
}

func (s *stubProducts) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := s.byID[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}
