// Package seed loads patient records into the document store from a JSON
// fixture. PINs arrive in plaintext and are stored only as bcrypt hashes.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"projeto_nfc/internal/common/security"
	"projeto_nfc/internal/domain/model"
	"projeto_nfc/internal/domain/repository"
	"projeto_nfc/internal/platform/logging"

	"github.com/gosimple/slug"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Entry is one element of the fixture array.
type Entry struct {
	ID          string          `json:"id"`
	InfoPublica json.RawMessage `json:"infoPublica"`
	InfoPrivada json.RawMessage `json:"infoPrivada"`
	Pin         string          `json:"pin"`
}

// Decode reads a fixture array.
func Decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return entries, nil
}

// Build turns an entry into a stored record. A missing id is derived from
// infoPublica.nome.
func Build(e Entry) (*model.UserRecord, error) {
	id := e.ID
	if id == "" {
		nome := gjson.GetBytes(e.InfoPublica, "nome").String()
		id = slug.Make(nome)
	}
	if id == "" {
		return nil, fmt.Errorf("entry has neither id nor %s.nome", model.PathPublicInfo)
	}
	if e.Pin == "" {
		return nil, fmt.Errorf("entry %q has no pin", id)
	}

	pinHash, err := security.HashPin(e.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin for %q: %w", id, err)
	}

	body := []byte(`{}`)
	for _, part := range []struct {
		path string
		raw  json.RawMessage
	}{
		{model.PathPublicInfo, e.InfoPublica},
		{model.PathPrivateInfo, e.InfoPrivada},
	} {
		raw := part.raw
		if len(raw) == 0 {
			raw = json.RawMessage(`{}`)
		}
		if !gjson.ParseBytes(raw).IsObject() {
			return nil, fmt.Errorf("entry %q: %s must be an object", id, part.path)
		}
		if body, err = sjson.SetRawBytes(body, part.path, raw); err != nil {
			return nil, fmt.Errorf("entry %q: set %s: %w", id, part.path, err)
		}
	}
	if body, err = sjson.SetBytes(body, model.PathPinHash, pinHash); err != nil {
		return nil, fmt.Errorf("entry %q: set pin hash: %w", id, err)
	}

	return &model.UserRecord{ID: id, Body: body}, nil
}

// Run builds every entry before writing any, so a bad fixture leaves the
// store untouched. It returns the ids written.
func Run(ctx context.Context, repo repository.RecordRepository, entries []Entry, log logging.Logger) ([]string, error) {
	records := make([]*model.UserRecord, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		rec, err := Build(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if prev, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("entry %d: id %q already used by entry %d", i, rec.ID, prev)
		}
		seen[rec.ID] = i
		records = append(records, rec)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if err := repo.Put(ctx, rec); err != nil {
			return ids, fmt.Errorf("store %q: %w", rec.ID, err)
		}
		log.Info(ctx, "record seeded", "user_id", rec.ID)
		ids = append(ids, rec.ID)
	}
	return ids, nil
}
