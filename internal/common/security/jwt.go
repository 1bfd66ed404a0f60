package security

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"projeto_nfc/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// VerifierOptions configures a TokenVerifier. At least one of HMACSecret and
// RSAPublicKeyPEM must be set; Issuer, Audience and RequiredRole are only
// enforced when non-empty.
type VerifierOptions struct {
	HMACSecret      []byte
	RSAPublicKeyPEM []byte
	Issuer          string
	Audience        string
	RequiredRole    string
}

// TokenVerifier checks admin bearer tokens issued by the identity provider.
type TokenVerifier struct {
	hmacKey      []byte
	rsaKey       *rsa.PublicKey
	methods      []string
	issuer       string
	audience     string
	requiredRole string
}

func NewTokenVerifier(opts VerifierOptions) (*TokenVerifier, error) {
	v := &TokenVerifier{
		issuer:       opts.Issuer,
		audience:     opts.Audience,
		requiredRole: opts.RequiredRole,
	}
	if len(opts.HMACSecret) > 0 {
		v.hmacKey = opts.HMACSecret
		v.methods = append(v.methods, jwt.SigningMethodHS256.Alg())
	}
	if len(opts.RSAPublicKeyPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(opts.RSAPublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parse RSA public key: %w", err)
		}
		v.rsaKey = key
		v.methods = append(v.methods, jwt.SigningMethodRS256.Alg())
	}
	if len(v.methods) == 0 {
		return nil, errors.New("token verifier needs an HMAC secret or an RSA public key")
	}
	return v, nil
}

// CheckAuth returns the admin identity carried by an Authorization header.
// A missing header, a malformed header and a token that fails verification
// all return false, and the caller cannot tell them apart.
func (v *TokenVerifier) CheckAuth(header string) (*model.AdminIdentity, bool) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, false
	}
	identity, err := v.Verify(token)
	if err != nil {
		return nil, false
	}
	return identity, true
}

// Verify validates signature, expiry, issuer, audience and role of a raw
// token and returns the identity it names.
func (v *TokenVerifier) Verify(tokenString string) (*model.AdminIdentity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, parserOpts...); err != nil {
		return nil, err
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("sub claim is missing")
	}
	issuer, _ := claims.GetIssuer()
	identity := &model.AdminIdentity{
		Subject: subject,
		Issuer:  issuer,
		Email:   stringClaim(claims, "email"),
		Role:    stringClaim(claims, "role"),
	}
	if v.requiredRole != "" && identity.Role != v.requiredRole {
		return nil, fmt.Errorf("role %q is not allowed", identity.Role)
	}
	return identity, nil
}

func (v *TokenVerifier) keyFunc(t *jwt.Token) (interface{}, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.hmacKey != nil {
			return v.hmacKey, nil
		}
	case *jwt.SigningMethodRSA:
		if v.rsaKey != nil {
			return v.rsaKey, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

// TokenIssuer mints HS256 admin tokens that a TokenVerifier sharing the same
// secret accepts.
type TokenIssuer struct {
	auth     *jwtauth.JWTAuth
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(secret []byte, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth:     jwtauth.New("HS256", secret, nil),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

func (i *TokenIssuer) Issue(subject, email, role string) (string, error) {
	claims := map[string]interface{}{
		"sub": subject,
	}
	if email != "" {
		claims["email"] = email
	}
	if role != "" {
		claims["role"] = role
	}
	if i.issuer != "" {
		claims["iss"] = i.issuer
	}
	if i.audience != "" {
		claims["aud"] = i.audience
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, i.ttl)

	_, tokenString, err := i.auth.Encode(claims)
	return tokenString, err
}
