package usecase

import (
	"context"

	entity "guardianearth/internal/entity"
	"guardianearth/internal/repository"
	"guardianearth/internal/usecase/service"
)

type Payment interface {
	CreateCardPayment(ctx context.Context, input service.CardPaymentInput) (*entity.Payment, error)
	SubmitBankTransfer(ctx context.Context, input service.BankTransferInput) (*service.BankTransferResult, error)
	ReviewPayment(ctx context.Context, paymentID string, target entity.PaymentStatus) (*entity.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
	GetPaymentByID(ctx context.Context, paymentID string) (*entity.Payment, error)
	ListPayments(ctx context.Context, filter repository.ListFilter) ([]*entity.Payment, error)
	Summary(ctx context.Context, filter repository.ListFilter, period service.Period) (*service.Summary, error)
}
