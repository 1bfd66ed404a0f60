package security

import "strings"

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value of the
// exact form "Bearer <token>". Any other shape yields ok == false: a
// different or lower-case scheme, extra spaces, an empty token, or a token
// containing whitespace or control characters.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || token == "" {
		return "", false
	}
	for i := 0; i < len(token); i++ {
		if c := token[i]; c <= ' ' || c == 0x7f {
			return "", false
		}
	}
	return token, true
}
