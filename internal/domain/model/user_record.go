package model

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Document paths inside a stored patient record.
const (
	PathPublicInfo  = "infoPublica"
	PathPrivateInfo = "infoPrivada"
	PathSecurity    = "seguranca"
	PathPinHash     = "seguranca.pinHash"
)

// UserRecord is a patient document as held by the document store. ID is the
// store key and is not part of Body.
type UserRecord struct {
	ID   string
	Body json.RawMessage
}

// PublicInfo projects the infoPublica subtree. Nothing else of the document
// is read.
func (r *UserRecord) PublicInfo() json.RawMessage {
	return r.subtree(PathPublicInfo)
}

// PrivateInfo projects the infoPrivada subtree.
func (r *UserRecord) PrivateInfo() json.RawMessage {
	return r.subtree(PathPrivateInfo)
}

// PinHash returns seguranca.pinHash, or "" when it is absent or not a string.
func (r *UserRecord) PinHash() string {
	res := gjson.GetBytes(r.Body, PathPinHash)
	if res.Type != gjson.String {
		return ""
	}
	return res.Str
}

// Listing returns the document with the seguranca subtree removed and the
// store key merged in as "id".
func (r *UserRecord) Listing() (json.RawMessage, error) {
	if !gjson.ValidBytes(r.Body) || !gjson.ParseBytes(r.Body).IsObject() {
		return nil, fmt.Errorf("record %q is not a JSON object", r.ID)
	}
	out, err := sjson.DeleteBytes(r.Body, PathSecurity)
	if err != nil {
		return nil, fmt.Errorf("strip %s from record %q: %w", PathSecurity, r.ID, err)
	}
	out, err = sjson.SetBytes(out, "id", r.ID)
	if err != nil {
		return nil, fmt.Errorf("set id on record %q: %w", r.ID, err)
	}
	return out, nil
}

func (r *UserRecord) subtree(path string) json.RawMessage {
	res := gjson.GetBytes(r.Body, path)
	if !res.IsObject() {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(res.Raw)
}
