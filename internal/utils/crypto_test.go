package utils

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDGenerator(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	gen := NewOrderIDGenerator(func() time.Time { return now })

	assert.Equal(t, "ORD-1767225600000", gen.Next())
	assert.Equal(t, "ORD-1767225600001", gen.Next())

	// A clock that moves backwards never reissues an id
	now = now.Add(-time.Second)
	assert.Equal(t, "ORD-1767225600002", gen.Next())

	now = now.Add(time.Hour)
	assert.Equal(t, "ORD-1767228599000", gen.Next())
}

func TestOrderIDGeneratorConcurrent(t *testing.T) {
	gen := NewOrderIDGenerator(nil)

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}

func TestNewIDAndSecureCompare(t *testing.T) {
	id := NewID("sess")
	require.True(t, strings.HasPrefix(id, "sess_"))
	assert.NotEqual(t, id, NewID("sess"))

	assert.True(t, SecureCompare("passcode", "passcode"))
	assert.False(t, SecureCompare("passcode", "passcodf"))
	assert.False(t, SecureCompare("passcode", ""))
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	SetJWTSecret("test-secret")

	refresh, err := GenerateRefreshToken("user_1", 1)
	require.NoError(t, err)
	_, err = ValidateJWT(refresh)
	assert.Error(t, err)

	subject, err := ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user_1", subject)

	access, err := GenerateJWT("user_1", "Aziz", "+998901234567", "customer", 1)
	require.NoError(t, err)
	claims, err := ValidateJWT(access)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)

	_, err = ValidateRefreshToken(access)
	assert.Error(t, err)
}
