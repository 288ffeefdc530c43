package service

import (
	"context"
	"errors"
	"fmt"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
)

var ErrDistributorInUse = errors.New("distributor has products, purchase orders or ledger entries and cannot be deleted")

type DistributorRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	PaymentTerms  *int   `json:"payment_terms"`
}

// DistributorDetails is the distributor page payload.
type DistributorDetails struct {
	Distributor    *model.Distributor          `json:"distributor"`
	Products       []model.Product             `json:"products"`
	PurchaseOrders []model.PurchaseOrder       `json:"purchase_orders"`
	Transactions   []model.SupplierTransaction `json:"transactions"`
}

type DistributorService interface {
	Create(ctx context.Context, req DistributorRequest) (*model.Distributor, error)
	Update(ctx context.Context, id uuid.UUID, req DistributorRequest) (*model.Distributor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Distributor, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*DistributorDetails, error)
	List(ctx context.Context) ([]model.Distributor, error)
}

type distributorService struct {
	txManager       repository.TransactionManager
	distributorRepo repository.DistributorRepository
	productRepo     repository.ProductRepository
	purchaseRepo    repository.PurchaseOrderRepository
	ledgerRepo      repository.LedgerRepository
}

func NewDistributorService(
	txManager repository.TransactionManager,
	distributorRepo repository.DistributorRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseOrderRepository,
	ledgerRepo repository.LedgerRepository,
) DistributorService {
	return &distributorService{
		txManager:       txManager,
		distributorRepo: distributorRepo,
		productRepo:     productRepo,
		purchaseRepo:    purchaseRepo,
		ledgerRepo:      ledgerRepo,
	}
}

func (s *distributorService) Create(ctx context.Context, req DistributorRequest) (*model.Distributor, error) {
	distributor := &model.Distributor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if req.PaymentTerms != nil {
		distributor.PaymentTerms = *req.PaymentTerms
	}
	if err := s.distributorRepo.Create(ctx, distributor); err != nil {
		return nil, fmt.Errorf("failed to create distributor: %w", err)
	}
	return distributor, nil
}

func (s *distributorService) Update(ctx context.Context, id uuid.UUID, req DistributorRequest) (*model.Distributor, error) {
	distributor, err := s.distributorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("distributor not found: %w", err)
	}
	distributor.Name = req.Name
	distributor.ContactPerson = req.ContactPerson
	distributor.Phone = req.Phone
	distributor.Email = req.Email
	distributor.Address = req.Address
	if req.PaymentTerms != nil {
		distributor.PaymentTerms = *req.PaymentTerms
	}
	if err := s.distributorRepo.Update(ctx, distributor); err != nil {
		return nil, fmt.Errorf("failed to update distributor: %w", err)
	}
	return distributor, nil
}

// Delete refuses while anything still points at the distributor; the check
// and the delete share one transaction so a reference cannot slip in between.
func (s *distributorService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.distributorRepo.FindByID(txCtx, id); err != nil {
			return fmt.Errorf("distributor not found: %w", err)
		}
		inUse, err := s.distributorRepo.HasReferences(txCtx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrDistributorInUse
		}
		return s.distributorRepo.Delete(txCtx, id)
	})
}

func (s *distributorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Distributor, error) {
	return s.distributorRepo.FindByID(ctx, id)
}

func (s *distributorService) GetDetails(ctx context.Context, id uuid.UUID) (*DistributorDetails, error) {
	distributor, err := s.distributorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("distributor not found: %w", err)
	}
	products, err := s.productRepo.ListByDistributor(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.purchaseRepo.ListByDistributor(ctx, id)
	if err != nil {
		return nil, err
	}
	transactions, err := s.ledgerRepo.ListSupplierTx(ctx, id, 50)
	if err != nil {
		return nil, err
	}
	return &DistributorDetails{
		Distributor:    distributor,
		Products:       products,
		PurchaseOrders: orders,
		Transactions:   transactions,
	}, nil
}

func (s *distributorService) List(ctx context.Context) ([]model.Distributor, error) {
	return s.distributorRepo.List(ctx)
}
