package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "argon2id$v=19$"))

	assert.True(t, CheckPasswordHash(h, "secret123"))
	assert.False(t, CheckPasswordHash(h, "wrong"))
	assert.False(t, CheckPasswordHash(h, ""))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not-a-hash",
		"bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"argon2id$v=19$m=65536,t=3$c2FsdA$aGFzaA",
		"argon2id$v=19$m=65536,t=3,p=4$!!$aGFzaA",
	} {
		assert.False(t, CheckPasswordHash(encoded, "secret123"), encoded)
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("secret123")
	assert.NoError(t, err)
	h2, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
