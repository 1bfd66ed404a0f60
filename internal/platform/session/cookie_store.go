package session

import (
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"
)

// CookieStore keeps the session client-side in an HS256-signed cookie whose
// subject is the account id.
type CookieStore struct {
	auth *jwtauth.JWTAuth
	opts CookieOptions
}

func NewCookieStore(secret []byte, opts CookieOptions) *CookieStore {
	if opts.Name == "" {
		opts.Name = "session"
	}
	return &CookieStore{
		auth: jwtauth.New("HS256", secret, nil),
		opts: opts,
	}
}

func (s *CookieStore) Load(r *http.Request) (Session, error) {
	value, ok := s.opts.read(r)
	if !ok {
		return Session{}, nil
	}
	token, err := jwtauth.VerifyToken(s.auth, value)
	if err != nil {
		return Session{}, nil
	}
	id, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil {
		return Session{}, nil
	}
	return ForAccount(id), nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess Session) error {
	if !sess.Authenticated() {
		return s.Destroy(w, r)
	}
	claims := map[string]interface{}{
		"sub": strconv.FormatInt(*sess.AccountID, 10),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, s.opts.TTL)

	_, value, err := s.auth.Encode(claims)
	if err != nil {
		return err
	}
	s.opts.set(w, value)
	return nil
}

func (s *CookieStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	s.opts.clear(w)
	return nil
}
