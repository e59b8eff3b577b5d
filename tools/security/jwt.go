package security

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"relaykit/protocol"
	"relaykit/tools/errs"
)

// Options controls signing and TTL.
type Options struct {
	Secret []byte        // HMAC key
	Alg    string        // HS256/HS384/HS512, default HS256
	TTL    time.Duration // token lifetime, default 2h
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", TTL: 2 * time.Hour}
}

// Generate issues a signed token for userID.
func Generate(opts Options, userID string) (token string, expireAt time.Time, err error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return "", time.Time{}, err
	}
	if opts.TTL == 0 {
		opts.TTL = 2 * time.Hour
	}
	now := time.Now()
	exp := now.Add(opts.TTL)

	claims := jwtlib.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwtlib.NewWithClaims(method, claims).SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, errs.WrapMsg(err, "sign token")
	}
	return signed, exp, nil
}

// Validator builds the token-validator collaborator for the authentication
// handler: an expired, malformed or badly signed token resolves to a nil
// user (rejected), never to an error. The sub claim becomes the user id.
func Validator(secret []byte) func(ctx context.Context, token string) (*protocol.User, error) {
	return func(_ context.Context, token string) (*protocol.User, error) {
		parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (any, error) {
			if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, errs.ErrInvalidToken.WrapMsg("alg " + t.Method.Alg())
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			return nil, nil
		}
		sub, err := parsed.Claims.GetSubject()
		if err != nil || sub == "" {
			return nil, nil
		}
		return &protocol.User{ID: sub}, nil
	}
}

func signingMethod(alg string) (jwtlib.SigningMethod, error) {
	switch alg {
	case "", "HS256":
		return jwtlib.SigningMethodHS256, nil
	case "HS384":
		return jwtlib.SigningMethodHS384, nil
	case "HS512":
		return jwtlib.SigningMethodHS512, nil
	default:
		return nil, errs.ErrInvalidToken.WrapMsg("unsupported alg " + alg)
	}
}
