package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sthapati/sthapati_be/internal/models"
)

const SessionCookie = "st_token"

type Claims struct {
	UserID            string `json:"uid"`
	Status            string `json:"status"`
	Category          string `json:"category"`
	IsAdmin           bool   `json:"isAdmin"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	GoogleID          string `json:"googleId,omitempty"`
	jwt.RegisteredClaims
}

// ClaimsFor snapshots the fields of u the access gate branches on.
func ClaimsFor(u *models.User) Claims {
	return Claims{
		UserID:            u.ID.String(),
		Status:            string(u.Status),
		Category:          string(u.Category),
		IsAdmin:           u.IsAdmin,
		IsProfileComplete: u.IsProfileComplete,
		GoogleID:          u.GoogleIDValue(),
	}
}

func SignJWT(secret string, claims Claims, expiresMin int) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresMin) * time.Minute)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func ParseJWT(secret, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
