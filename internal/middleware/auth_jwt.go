package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey    = "user_id"    // int64
	CtxRequestIDKey = "request_id" // string
)

type errorResponse struct {
	Message string `json:"message"`
}

// bearerAuth用のJWT検証ミドルウェア。
// トークン無しは401、検証失敗（署名・期限・形式）は403
func AuthJWT(secret string) echo.MiddlewareFunc {
	key := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Message: "access token required"})
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Message: "access token required"})
			}
			rawToken := strings.TrimSpace(parts[1])

			//JWTをパースして検証する（expも見る）
			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return key, nil
			})
			//expの無いトークンは受け付けない
			if err != nil || token == nil || !token.Valid || claims.ExpiresAt == nil {
				return c.JSON(http.StatusForbidden, errorResponse{Message: "invalid token"})
			}

			//user_idを取り出す
			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil || userID <= 0 {
				return c.JSON(http.StatusForbidden, errorResponse{Message: "invalid token"})
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)

			return next(c)
		}
	}
}
