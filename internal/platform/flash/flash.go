// Package flash carries one-shot notices across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const CookieName = "flash"

// Kind is the presentation class of a notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindDanger  Kind = "danger"
)

type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

func Success(text string) Message { return Message{Kind: KindSuccess, Text: text} }
func Info(text string) Message    { return Message{Kind: KindInfo, Text: text} }
func Warning(text string) Message { return Message{Kind: KindWarning, Text: text} }
func Danger(text string) Message  { return Message{Kind: KindDanger, Text: text} }

// Write stores msg for the next page render.
func Write(w http.ResponseWriter, msg Message, secure bool) {
	if msg.Text == "" || !msg.Kind.valid() {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires the cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request, secure bool) (Message, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Message{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Message{}, false
	}
	var msg Message
	if err := json.Unmarshal(decoded, &msg); err != nil {
		return Message{}, false
	}
	if msg.Text == "" || !msg.Kind.valid() {
		return Message{}, false
	}
	return msg, true
}

func (k Kind) valid() bool {
	switch k {
	case KindSuccess, KindInfo, KindWarning, KindDanger:
		return true
	}
	return false
}
