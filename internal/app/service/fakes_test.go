package service

import (
	"context"
	"sort"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/domain/model"
)

type fakeRecordRepo struct {
	records map[string]string
	err     error
	calls   int
}

func newFakeRecordRepo(records map[string]string) *fakeRecordRepo {
	return &fakeRecordRepo{records: records}
}

func (f *fakeRecordRepo) FindByID(ctx context.Context, id string) (*model.UserRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &model.UserRecord{ID: id, Body: []byte(body)}, nil
}

func (f *fakeRecordRepo) All(ctx context.Context) ([]model.UserRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]model.UserRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.UserRecord{ID: id, Body: []byte(f.records[id])})
	}
	return out, nil
}

func (f *fakeRecordRepo) Put(ctx context.Context, record *model.UserRecord) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.records[record.ID] = string(record.Body)
	return nil
}

// fakeAccountRepo enforces username and email uniqueness like the real table.
type fakeAccountRepo struct {
	accounts []model.Account
	err      error
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *model.Account) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for _, a := range f.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return 0, common.ErrConflict
		}
	}
	account.ID = int64(len(f.accounts) + 1)
	f.accounts = append(f.accounts, *account)
	return account.ID, nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.accounts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, common.ErrNotFound
}
