package utils

import (
	"errors"
	"time"

	"vivare/config"

	"github.com/golang-jwt/jwt"
)

func deviceSecret() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "vivare-dev-secret"
	}
	return []byte(secret)
}

// GenerateDeviceToken creates a signed JWT carrying an opaque device ID.
// The token only scopes session records per device; it carries no identity.
func GenerateDeviceToken(deviceID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": deviceID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(deviceSecret())
}

// DeviceIDFromToken validates a device token and extracts the device ID.
func DeviceIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return deviceSecret(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
