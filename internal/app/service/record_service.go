package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/common/security"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/logging"
)

// RecordService serves the patient documents behind an NFC tag.
type RecordService struct {
	records repository.RecordRepository
	log     logging.Logger
}

func NewRecordService(records repository.RecordRepository, log logging.Logger) *RecordService {
	return &RecordService{records: records, log: log}
}

// PublicInfo returns the infoPublica subtree of a record. No authorization is
// needed.
func (s *RecordService) PublicInfo(ctx context.Context, userID string) (json.RawMessage, error) {
	record, err := s.records.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, "public info", userID, err)
	}
	return record.PublicInfo(), nil
}

// Unlock returns the infoPrivada subtree of a record when pin matches the
// stored hash.
func (s *RecordService) Unlock(ctx context.Context, userID, pin string) (json.RawMessage, error) {
	if userID == "" || pin == "" {
		return nil, common.ErrMissingFields
	}

	record, err := s.records.FindByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(ctx, "unlock", userID, err)
	}

	pinHash := record.PinHash()
	if pinHash == "" {
		s.log.Error(ctx, "record has no pin hash", "user_id", userID)
		return nil, common.ErrMisconfiguredRecord
	}

	if !security.VerifyPin(pinHash, pin) {
		s.log.Info(ctx, "unlock rejected", "user_id", userID)
		return nil, common.ErrInvalidPin
	}

	s.log.Info(ctx, "record unlocked", "user_id", userID)
	return record.PrivateInfo(), nil
}

// ListAll returns every record with its store key merged in as "id" and the
// seguranca subtree removed. Callers must authorize before calling it.
func (s *RecordService) ListAll(ctx context.Context) ([]json.RawMessage, error) {
	records, err := s.records.All(ctx)
	if err != nil {
		s.log.Error(ctx, "list records failed", "error", err)
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	out := make([]json.RawMessage, 0, len(records))
	for i := range records {
		listing, err := records[i].Listing()
		if err != nil {
			s.log.Error(ctx, "malformed record", "user_id", records[i].ID, "error", err)
			return nil, fmt.Errorf("%w: %w", common.ErrInternalServer, err)
		}
		out = append(out, listing)
	}
	return out, nil
}

func (s *RecordService) lookupError(ctx context.Context, op, userID string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("record %q: %w", userID, common.ErrNotFound)
	}
	s.log.Error(ctx, op+" lookup failed", "user_id", userID, "error", err)
	return fmt.Errorf("failed to find record: %w", err)
}
