package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prajwalbasnet/kinmel-backend/pkg/db/models"
	pkgerrors "github.com/prajwalbasnet/kinmel-backend/pkg/errors"
)

// Service defines the behavior needed by the address controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, addr *models.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, addr *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// ServiceParams bundles the dependencies required to build an address service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs an address service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error) {
	addr := &models.Address{
		UserID:        userID,
		AddressName:   strings.TrimSpace(req.AddressName),
		RecipientName: req.RecipientName,
		StreetName:    strings.TrimSpace(req.StreetName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		City:          strings.TrimSpace(req.City),
		IsDefault:     req.IsDefault,
	}
	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return FromModel(addr), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return FromModels(addresses), nil
}

func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	return FromModel(addr), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req UpdateAddressRequest) (*AddressDTO, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.AddressName != nil {
		addr.AddressName = strings.TrimSpace(*req.AddressName)
	}
	if req.RecipientName != nil {
		addr.RecipientName = req.RecipientName
	}
	if req.StreetName != nil {
		addr.StreetName = strings.TrimSpace(*req.StreetName)
	}
	if req.PhoneNumber != nil {
		addr.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.City != nil {
		addr.City = strings.TrimSpace(*req.City)
	}
	if req.IsDefault != nil {
		addr.IsDefault = *req.IsDefault
	}

	if err := s.repo.Update(ctx, addr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
	}
	return FromModel(addr), nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	return nil
}

func (s *service) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup address")
	}
	if addr.UserID != userID {
		// foreign-owned addresses are indistinguishable from missing ones
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return addr, nil
}
