package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	"github.com/prajwalbasnet/kinmel-backend/pkg/enums"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
)

// Service defines the behavior needed by the order controllers.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResponse, error)
	Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderDTO, error)
}

type repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatuses(ctx context.Context, order *models.Order) error
	ConfirmPayment(ctx context.Context, order *models.Order) error
}

type addressFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type productFinder interface {
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo           repository
	addresses      addressFinder
	products       productFinder
	deliveryCharge decimal.Decimal
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo           repository
	Addresses      addressFinder
	Products       productFinder
	DeliveryCharge decimal.Decimal
}

// NewService constructs an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address finder is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.DeliveryCharge.IsNegative() {
		return nil, fmt.Errorf("delivery charge cannot be negative")
	}
	return &service{
		repo:           params.Repo,
		addresses:      params.Addresses,
		products:       params.Products,
		deliveryCharge: params.DeliveryCharge,
	}, nil
}

func (s *service) Place(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	addr, err := s.addresses.FindByID(ctx, req.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}

	method := enums.PaymentMethodCOD
	if req.PaymentMethod != "" {
		method, err = enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
	}

	ids := make([]uuid.UUID, 0, len(req.Products))
	for _, line := range req.Products {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// total = sum of effective price x quantity, plus the flat delivery
	// charge once per line
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Products))
	for _, line := range req.Products {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", line.ProductID)).
				WithDetails(map[string]string{"product": line.ProductID.String()})
		}
		lineCost := product.EffectivePrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineCost).Add(s.deliveryCharge)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
		})
	}

	order := &models.Order{
		UserID:        userID,
		AddressID:     &addr.ID,
		TotalAmount:   total,
		PaymentMethod: method,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPending,
		Items:         items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	return &PlaceOrderResponse{
		Message: "order placed successfully",
		OrderID: order.ID,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.buildDTO(ctx, order)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	productsByID, err := s.loadProducts(ctx, rows)
	if err != nil {
		return nil, err
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i], productsByID))
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderDTO, error) {
	order, err := s.orderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	newPayment := order.PaymentStatus
	if req.PaymentStatus != nil {
		newPayment, err = enums.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
	}
	newStatus := order.Status
	if req.Status != nil {
		newStatus, err = enums.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
		}
	}

	// stock is reconciled exactly once, on the first transition into Paid
	confirming := newPayment == enums.PaymentStatusPaid && order.PaymentStatus != enums.PaymentStatusPaid

	order.PaymentStatus = newPayment
	order.Status = newStatus

	if confirming {
		if err := s.repo.ConfirmPayment(ctx, order); err != nil {
			var stockErr *InsufficientStockError
			if errors.As(err, &stockErr) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for product %s", stockErr.ProductID)).
					WithDetails(map[string]string{"product": stockErr.ProductID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm payment")
		}
	} else {
		if err := s.repo.UpdateStatuses(ctx, order); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
	}

	return s.buildDTO(ctx, order)
}

func (s *service) orderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return order, nil
}

func (s *service) buildDTO(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	productsByID, err := s.loadProducts(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return fromModel(order, productsByID), nil
}

func (s *service) loadProducts(ctx context.Context, rows []models.Order) (map[uuid.UUID]*models.Product, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for i := range rows {
		for _, item := range rows[i].Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*models.Product{}, nil
	}

	products, err := s.products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}
