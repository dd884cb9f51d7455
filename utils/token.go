package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a session cookie stays valid
const SessionTTL = 30 * 24 * time.Hour

// GenerateSessionToken signs a token carrying the browser's client id
func GenerateSessionToken(secret []byte, clientID string) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("session secret is not set")
	}

	claims := jwt.MapClaims{
		"client_id": clientID,
		"exp":       time.Now().Add(SessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates tokenString and returns the client id it carries
func ParseSessionToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	clientID, ok := claims["client_id"].(string)
	if !ok || clientID == "" {
		return "", fmt.Errorf("session token has no client_id")
	}
	return clientID, nil
}
