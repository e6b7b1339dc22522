package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const MAX_API_KEY_LENGTH = 72

func HashAPIKey(apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("api key cannot be empty")
	}
	if len(apiKey) > MAX_API_KEY_LENGTH {
		return "", fmt.Errorf("api key so long, maximum length is %d", MAX_API_KEY_LENGTH)
	}
	hashedKey, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash plain api key: %w", err)
	}
	return string(hashedKey), nil
}

func CompareAPIKey(hashedKey string, plainKey string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(plainKey))
	return err == nil
}
