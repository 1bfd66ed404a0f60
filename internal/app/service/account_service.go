package service

import (
	"context"
	"errors"
	"fmt"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/common/security"
	"projeto_nfc/internal/domain/model"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/logging"
)

// AccountService registers accounts and checks their credentials. Sessions
// are handled by the caller.
type AccountService struct {
	accounts repository.AccountRepository
	log      logging.Logger
}

func NewAccountService(accounts repository.AccountRepository, log logging.Logger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register stores a new account and returns its id. Duplicates are reported by
// the store and come back as common.ErrConflict.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return 0, common.ErrBadRequest
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	id, err := s.accounts.Create(ctx, account)
	if err != nil {
		if !errors.Is(err, common.ErrConflict) {
			s.log.Error(ctx, "create account failed", "username", req.Username, "error", err)
		}
		return 0, fmt.Errorf("failed to create account: %w", err)
	}

	s.log.Info(ctx, "account registered", "account_id", id)
	return id, nil
}

// Login looks the account up by email, exactly as typed, and checks the
// password. Unknown email and wrong password are the same ErrUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.Account, error) {
	if email == "" || password == "" {
		return nil, common.ErrUnauthorized
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		s.log.Error(ctx, "find account failed", "error", err)
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if !security.VerifyPassword(account.PasswordHash, password) {
		s.log.Info(ctx, "login rejected", "account_id", account.ID)
		return nil, common.ErrUnauthorized
	}

	s.log.Info(ctx, "login succeeded", "account_id", account.ID)
	return account, nil
}

// Account loads the account a session points to.
func (s *AccountService) Account(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Error(ctx, "find account failed", "account_id", id, "error", err)
		}
		return nil, err
	}
	return account, nil
}
