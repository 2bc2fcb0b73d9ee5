// Package jwt извлекает сведения из токенов сессии, если они имеют форму JWT.
//
// Консоль не владеет ключом подписи, поэтому подпись не проверяется:
// полученные claims служат только подсказкой о сроке действия.
// Источник истины о валидности токена — бэкенд.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims — сведения, прочитанные из токена без проверки подписи.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect разбирает токен без проверки подписи.
// Возвращает false, если токен не JWT или в нём нет срока действия.
func Inspect(token string) (Claims, bool) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, false
	}
	if rc.ExpiresAt == nil {
		return Claims{}, false
	}
	return Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}, true
}
