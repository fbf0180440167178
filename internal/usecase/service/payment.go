package service

import (
	"context"
	"fmt"
	"io"

	"guardianearth/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"guardianearth/internal/cmd/cloudinary"
	"guardianearth/internal/cmd/mailer"
	"guardianearth/internal/cmd/stripe"
	"guardianearth/internal/cmd/users"
	"guardianearth/internal/config"
	dto "guardianearth/internal/entity"
)

// Publisher pushes payment lifecycle events to whoever is watching the admin
// dashboard. Implementations must not block.
type Publisher interface {
	PublishPayment(kind string, payment *dto.Payment)
}

const (
	EventPaymentCreated = "payment.created"
	EventPaymentUpdated = "payment.updated"
	EventPaymentDeleted = "payment.deleted"
)

type PaymentService struct {
	repo      repository.PaymentRepository
	logger    *zap.Logger
	gateway   stripe.Gateway
	storage   cloudinary.Storage
	notifier  mailer.Notifier
	directory users.Directory
	publisher Publisher
	sanitizer *bluemonday.Policy

	minBankAmount    float64
	retainedFraction float64
	maxEvidenceBytes int64
}

func NewPaymentService(
	repo repository.PaymentRepository,
	logger *zap.Logger,
	gateway stripe.Gateway,
	storage cloudinary.Storage,
	notifier mailer.Notifier,
	directory users.Directory,
	publisher Publisher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		repo:             repo,
		logger:           logger.With(zap.String("component", "payment_service")),
		gateway:          gateway,
		storage:          storage,
		notifier:         notifier,
		directory:        directory,
		publisher:        publisher,
		sanitizer:        bluemonday.StrictPolicy(),
		minBankAmount:    cfg.Payments.MinBankAmount,
		retainedFraction: cfg.Payments.RetainedFraction,
		maxEvidenceBytes: cfg.Payments.MaxEvidenceBytes,
	}
}

type CardPaymentInput struct {
	DonorID       string
	Amount        float64
	Currency      string
	DisasterID    string
	PaymentMethod string
}

// CreateCardPayment captures a card donation synchronously. The record lands
// in a terminal state either way: a declined card is persisted as Failed for
// the audit trail, only gateway connectivity problems abort without a record.
func (s *PaymentService) CreateCardPayment(ctx context.Context, input CardPaymentInput) (*dto.Payment, error) {
	s.logger.Info("Creating card payment",
		zap.String("donor_id", input.DonorID),
		zap.Float64("amount", input.Amount),
		zap.String("currency", input.Currency))

	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", dto.ErrInvalidAmount)
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	result, err := s.gateway.Charge(ctx, input.Amount, input.Currency, input.PaymentMethod)
	if err != nil {
		s.logger.Error("Card charge failed", zap.String("donor_id", input.DonorID), zap.Error(err))
		return nil, err
	}

	status := dto.StatusFailed
	if result.Succeeded {
		status = dto.StatusSuccessful
	}

	payment := &dto.Payment{
		DonorID:       input.DonorID,
		Channel:       dto.ChannelCard,
		Amount:        dto.Money(input.Amount),
		Currency:      input.Currency,
		Status:        status,
		TransactionID: result.ChargeID,
		GatewayCharge: result.ChargeID,
		DisasterID:    input.DisasterID,
	}

	paymentID, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		s.logger.Error("Failed to persist card payment", zap.Error(err))
		return nil, err
	}
	payment.ID = paymentID

	s.publisher.PublishPayment(EventPaymentCreated, payment)

	s.logger.Info("Card payment recorded",
		zap.String("payment_id", paymentID),
		zap.String("status", string(status)))
	return payment, nil
}

type BankTransferInput struct {
	DonorID    string
	FullName   string
	BankName   string
	Branch     string
	Amount     string
	Currency   string
	DisasterID string

	FileName string
	FileSize int64
	File     io.Reader
}

type BankTransferResult struct {
	PaymentID        string
	Status           dto.PaymentStatus
	NotificationSent bool
}

// SubmitBankTransfer runs the manual-verification intake: validate everything
// up front, upload the slip, persist a Pending record, then notify operations.
// The steps stay in that order because the record must reference an evidence
// URL that already exists. Notification failure does not undo the record.
func (s *PaymentService) SubmitBankTransfer(ctx context.Context, input BankTransferInput) (*BankTransferResult, error) {
	s.logger.Info("Submitting bank transfer",
		zap.String("donor_id", input.DonorID),
		zap.String("amount", input.Amount))

	amount, err := s.validateBankTransfer(&input)
	if err != nil {
		return nil, err
	}

	evidenceURL, err := s.storage.Store(ctx, input.FileName, io.LimitReader(input.File, s.maxEvidenceBytes))
	if err != nil {
		s.logger.Error("Evidence upload failed", zap.String("donor_id", input.DonorID), zap.Error(err))
		return nil, err
	}

	payment := &dto.Payment{
		DonorID:    input.DonorID,
		DonorName:  s.sanitizer.Sanitize(input.FullName),
		Channel:    dto.ChannelBankTransfer,
		Amount:     dto.Money(amount),
		Currency:   input.Currency,
		Status:     dto.StatusPending,
		Evidence:   evidenceURL,
		BankName:   s.sanitizer.Sanitize(input.BankName),
		Branch:     s.sanitizer.Sanitize(input.Branch),
		DisasterID: input.DisasterID,
	}

	paymentID, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		s.logger.Error("Failed to persist bank transfer", zap.Error(err))
		return nil, err
	}
	payment.ID = paymentID

	s.publisher.PublishPayment(EventPaymentCreated, payment)

	notified := true
	err = s.notifier.SendBankDeposit(ctx, mailer.BankDeposit{
		PaymentID: paymentID,
		DonorName: payment.DonorName,
		Amount:    amount,
		Currency:  input.Currency,
		BankName:  payment.BankName,
		Branch:    payment.Branch,
		Evidence:  evidenceURL,
	})
	if err != nil {
		// The record is the source of truth; a lost email is an inconvenience.
		notified = false
		s.logger.Warn("Bank deposit notification failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
	}

	s.logger.Info("Bank transfer recorded", zap.String("payment_id", paymentID))
	return &BankTransferResult{
		PaymentID:        paymentID,
		Status:           dto.StatusPending,
		NotificationSent: notified,
	}, nil
}

// ReviewPayment moves a Pending record to a terminal status. The conditional
// write in the store decides races between concurrent reviewers.
func (s *PaymentService) ReviewPayment(ctx context.Context, paymentID string, target dto.PaymentStatus) (*dto.Payment, error) {
	s.logger.Info("Reviewing payment",
		zap.String("payment_id", paymentID),
		zap.String("target", string(target)))

	if !target.IsTerminal() {
		return nil, fmt.Errorf("%w: target must be %s or %s",
			dto.ErrInvalidTransition, dto.StatusSuccessful, dto.StatusFailed)
	}

	payment, err := s.repo.UpdatePaymentStatus(ctx, paymentID, target)
	if err != nil {
		s.logger.Warn("Review rejected",
			zap.String("payment_id", paymentID),
			zap.String("target", string(target)),
			zap.Error(err))
		return nil, err
	}

	s.publisher.PublishPayment(EventPaymentUpdated, payment)

	s.logger.Info("Payment reviewed",
		zap.String("payment_id", paymentID),
		zap.String("status", string(payment.Status)))
	return payment, nil
}

// DeletePayment removes a record regardless of status. Confirmation happens
// at the caller boundary.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID string) error {
	s.logger.Info("Deleting payment", zap.String("payment_id", paymentID))

	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePayment(ctx, paymentID); err != nil {
		s.logger.Error("Failed to delete payment", zap.String("payment_id", paymentID), zap.Error(err))
		return err
	}

	s.publisher.PublishPayment(EventPaymentDeleted, payment)
	return nil
}

func (s *PaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*dto.Payment, error) {
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		s.logger.Error("Failed to get payment", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, filter repository.ListFilter) ([]*dto.Payment, error) {
	payments, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, err
	}
	return payments, nil
}

// Summary recomputes the dashboard figures from the current record set. It is
// a pure read: polling it repeatedly with no intervening writes returns
// identical results.
func (s *PaymentService) Summary(ctx context.Context, filter repository.ListFilter, period Period) (*Summary, error) {
	payments, err := s.repo.ListPayments(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to load payments for summary", zap.Error(err))
		return nil, err
	}

	counts, err := s.directory.CountUsers(ctx)
	if err != nil {
		// The ratio is a proxy metric displayed alongside the money figures;
		// losing it should not blank the whole dashboard.
		s.logger.Warn("User directory unavailable, distribution ratio zeroed", zap.Error(err))
		counts = users.Counts{}
	}

	summary := Summarize(payments, s.retainedFraction, counts, period)
	return &summary, nil
}
