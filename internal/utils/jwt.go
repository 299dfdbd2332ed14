package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/sha256" // SHA-256 hashing for revoked tokens
    "encoding/hex"  // hex encoding of digests
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"
)

// AccessToken represents a signed JWT along with its expiry.  The token is
// delivered both as the `token` cookie and in the Authorization header.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the parsed content of an access token.
type Claims struct {
    UserID uint64
    Email  string
    ID     string // jti
    Exp    time.Time
}

// ErrInvalidToken is returned for tokens that fail signature, algorithm or
// expiry checks, or that lack the claims issued by NewAccessToken.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a user.  Besides the
// standard sub, exp and iat claims it carries the email and a random jti,
// so that two tokens issued in the same second never share a hash in the
// revocation list.
func NewAccessToken(secret string, userID uint64, email string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":   strconv.FormatUint(userID, 10),
        "email": email,
        "jti":   uuid.NewString(),
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and extracts its claims.  Only
// HMAC signatures are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }

    sub, _ := mc["sub"].(string)
    uid, err := strconv.ParseUint(sub, 10, 64)
    if err != nil || uid == 0 {
        return Claims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
    }
    email, _ := mc["email"].(string)
    jti, _ := mc["jti"].(string)
    exp, err := mc.GetExpirationTime()
    if err != nil || exp == nil {
        return Claims{}, fmt.Errorf("%w: bad expiry", ErrInvalidToken)
    }
    return Claims{UserID: uid, Email: email, ID: jti, Exp: exp.Time.UTC()}, nil
}

// HashToken returns the SHA-256 hash of a token as a hex string.  Only the
// hash of a logged-out token is stored.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
