package billing

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/gym"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrGymNotFound          = errors.New("gym not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvoiceClosed        = errors.New("invoice is paid or cancelled")
	ErrOverpayment          = errors.New("payment exceeds invoice balance")
	ErrInvoiceHasPayments   = errors.New("invoice has recorded payments")
	ErrInconsistentPayments = errors.New("payments exceed invoice total")
)

type Service interface {
	CreateInvoice(ctx context.Context, gctx gym.Context, req CreateInvoiceRequest) (*Invoice, error)
	GetInvoice(ctx context.Context, id int) (*Invoice, []Payment, error)
	ListInvoices(ctx context.Context, gctx gym.Context, filter InvoiceFilter) ([]Invoice, error)
	RecordPayment(ctx context.Context, gctx gym.Context, invoiceID int, req RecordPaymentRequest) (*Payment, error)
	DeletePayment(ctx context.Context, gctx gym.Context, paymentID int) (*Payment, error)
	CancelInvoice(ctx context.Context, gctx gym.Context, invoiceID int) (*Invoice, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateInvoice(ctx context.Context, gctx gym.Context, req CreateInvoiceRequest) (*Invoice, error) {
	if req.MemberID <= 0 {
		return nil, ErrMemberNotFound
	}
	if req.Amount.IsNegative() || req.Discount.IsNegative() || req.Discount.GreaterThan(req.Amount) {
		return nil, ErrInvalidAmount
	}

	dueInDays := req.DueInDays
	if dueInDays == 0 {
		dueInDays = gctx.Settings.InvoiceOverdueInDays
	}
	if dueInDays < 1 {
		return nil, ErrInvalidAmount
	}

	return s.repo.CreateInvoice(ctx, gctx.GymID, req.MemberID, req.SubscriptionID, req.Amount, req.Discount, dueInDays)
}

func (s *service) GetInvoice(ctx context.Context, id int) (*Invoice, []Payment, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.repo.GetPayments(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	inv.Status = inv.DisplayStatus(time.Now())
	return inv, payments, nil
}

func (s *service) ListInvoices(ctx context.Context, gctx gym.Context, filter InvoiceFilter) ([]Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx, gctx.GymID, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invoices {
		invoices[i].Status = invoices[i].DisplayStatus(now)
	}
	return invoices, nil
}

func (s *service) RecordPayment(ctx context.Context, gctx gym.Context, invoiceID int, req RecordPaymentRequest) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	return s.repo.RecordPayment(ctx, invoiceID, req.AccountID, req.Amount, req.PaymentMethod, req.ReferenceNumber, time.Now())
}

func (s *service) DeletePayment(ctx context.Context, gctx gym.Context, paymentID int) (*Payment, error) {
	return s.repo.DeletePayment(ctx, paymentID)
}

func (s *service) CancelInvoice(ctx context.Context, gctx gym.Context, invoiceID int) (*Invoice, error) {
	return s.repo.CancelInvoice(ctx, invoiceID)
}
