// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// A Service holds one signing key and validates the algorithm, signature,
// expiry ("exp" is mandatory), issued-at and optionally the issuer of every
// parsed token. Callers embed RegisteredClaims in their own claim structs:
//
//	type sessionClaims struct {
//	    jwt.RegisteredClaims
//	}
//
//	svc, err := jwt.NewFromString(secret)
//	token, err := svc.Generate(sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
//	    Subject:   accountID,
//	    ExpiresAt: jwt.NewNumericDate(time.Now().Add(4 * time.Hour)),
//	}})
//
//	var claims sessionClaims
//	if err := svc.Parse(token, &claims); errors.Is(err, jwt.ErrInvalidToken) {
//	    // reject
//	}
//
// Token extractors read raw tokens from custom headers or the
// Authorization bearer scheme.
package jwt
