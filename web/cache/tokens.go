package cache

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/noyan-alimov/lireddit-server/logger"
)

const (
	forgetPasswordPrefix = "forget-password:"

	// ResetTokenTTL bounds how long a password-reset link stays valid.
	ResetTokenTTL = 12 * time.Hour
)

// NewResetToken generates an opaque single-use token and maps it to the
// user id with a TTL. The token, not the full key, is what goes in the
// reset email.
func NewResetToken(userId int) (string, error) {
	token := uuid.NewString()
	if err := Set(forgetPasswordPrefix+token, strconv.Itoa(userId), ResetTokenTTL); err != nil {
		return "", err
	}
	logger.Debugf("issued reset token for user %d", userId)
	return token, nil
}

// LookupResetToken resolves a token to the user id it was issued for.
// Expired or unknown tokens return ErrNotFound.
func LookupResetToken(token string) (int, error) {
	val, err := Get(forgetPasswordPrefix + token)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// DeleteResetToken removes a token. Tokens are single-use: the caller deletes
// the token right after a successful password change.
func DeleteResetToken(token string) error {
	return Delete(forgetPasswordPrefix + token)
}
