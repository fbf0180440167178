package repository

import (
	"context"
	"time"

	entity "guardianearth/internal/entity"
)

// ListFilter narrows payment listings. Zero values mean "no constraint".
type ListFilter struct {
	Status     entity.PaymentStatus
	DonorID    string
	DisasterID string
	DateFrom   time.Time
	DateTo     time.Time
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *entity.Payment) (string, error)
	GetPaymentByID(ctx context.Context, paymentID string) (*entity.Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]*entity.Payment, error)
	// UpdatePaymentStatus flips a Pending record to a terminal status. It is a
	// conditional write: a record that is no longer Pending is left untouched
	// and the call fails with ErrInvalidTransition. Missing records fail with
	// ErrNotFound.
	UpdatePaymentStatus(ctx context.Context, paymentID string, status entity.PaymentStatus) (*entity.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) error
}
