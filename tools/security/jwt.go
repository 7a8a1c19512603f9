package security

import (
	"time"

	"FProject/tools/errs"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Options 控制签名与TTL等参数。
type Options struct {
	Secret []byte        // HMAC 密钥（生产用ENV/KMS）
	TTL    time.Duration // 令牌有效期（默认 2h）
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, TTL: 2 * time.Hour}
}

// Generate 为指定用户签发网关接入令牌（HS256）。
func Generate(opts Options, userID string) (string, time.Time, error) {
	if opts.TTL <= 0 {
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
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := tok.SignedString(opts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify 校验令牌并返回 subject（用户ID）。
func Verify(opts Options, token string) (string, error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errs.ErrTokenInvalid
		}
		return opts.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", errs.ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", errs.ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errs.ErrTokenInvalid
	}
	return sub, nil
}
