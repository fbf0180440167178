package service

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	dto "guardianearth/internal/entity"
)

var (
	nameRe   = regexp.MustCompile(`^[A-Za-z\s]+$`)
	amountRe = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)
)

var acceptedEvidenceExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

// validateBankTransfer checks every field before any side effect runs, so a
// rejected submission never leaves a partial record or an orphaned upload.
// Returns the parsed amount on success.
func (s *PaymentService) validateBankTransfer(input *BankTransferInput) (float64, error) {
	if err := validatePersonField("full_name", input.FullName); err != nil {
		return 0, err
	}
	if err := validatePersonField("branch", input.Branch); err != nil {
		return 0, err
	}
	if strings.TrimSpace(input.BankName) == "" {
		return 0, dto.NewValidationError("bank_name", "bank name is required")
	}

	raw := strings.TrimSpace(input.Amount)
	if raw == "" {
		return 0, dto.NewValidationError("amount", "amount is required")
	}
	if !amountRe.MatchString(raw) {
		return 0, dto.NewValidationError("amount", "must be a positive number with at most 2 decimal places")
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount <= 0 {
		return 0, dto.NewValidationError("amount", "must be a positive number")
	}
	if amount < s.minBankAmount {
		return 0, fmt.Errorf("%w: minimum is %.0f", dto.ErrAmountTooLow, s.minBankAmount)
	}

	if input.File == nil || input.FileName == "" {
		return 0, dto.NewValidationError("evidence", "a proof-of-deposit file is required")
	}
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !acceptedEvidenceExt[ext] {
		return 0, dto.NewValidationError("evidence", "file must be an image or PDF")
	}
	if input.FileSize > s.maxEvidenceBytes {
		return 0, dto.NewValidationError("evidence", "file is too large")
	}

	if input.Currency == "" {
		input.Currency = "USD"
	}

	return amount, nil
}

func validatePersonField(field, value string) error {
	if value == "" {
		return dto.NewValidationError(field, field+" is required")
	}
	if !nameRe.MatchString(value) {
		return dto.NewValidationError(field, "only letters and spaces are allowed")
	}
	if len(strings.TrimSpace(value)) < 4 {
		return dto.NewValidationError(field, "must be at least 4 characters long")
	}
	return nil
}
