package admin

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

const testSecret = "supersupersecretkey don't share it with anyone"

func TestGenerate(t *testing.T) {
	t.Parallel()
	manager := NewTokenManager(testSecret, time.Hour)
	now := time.Now()

	token, err := manager.Generate(now)
	require.NoError(t, err)

	tokenParts := strings.Split(token, ".")
	require.Len(t, tokenParts, 3)
	jwtHead, _ := base64.RawURLEncoding.DecodeString(tokenParts[0])
	jwtBody, _ := base64.RawURLEncoding.DecodeString(tokenParts[1])
	jwtSignature, _ := base64.RawURLEncoding.DecodeString(tokenParts[2])

	assert.JSONEq(t, `{"alg": "HS256","typ": "JWT"}`, string(jwtHead))
	assert.JSONEq(t, fmt.Sprintf(`{"role": "admin","exp": %d }`, now.Add(time.Hour).Unix()), string(jwtBody))
	assert.Len(t, jwtSignature, 256/8, "256 bits of sha256")
}

func TestVerify(t *testing.T) {
	t.Parallel()
	manager := NewTokenManager(testSecret, 2*time.Hour)

	now := time.Now()
	oneHourAgo := now.Add(-time.Hour)
	threeHoursAgo := now.Add(-3 * time.Hour)

	token, _ := manager.Generate(threeHoursAgo)
	assert.ErrorIs(t, manager.Verify(token), domain.ErrExpiredToken)

	token, _ = manager.Generate(oneHourAgo)
	assert.NoError(t, manager.Verify(token))

	tamperedToken := token + "lol"
	assert.ErrorIs(t, manager.Verify(tamperedToken), domain.ErrInvalidTokenSignature)

	tokenNonHS256Alg := "eyJhbGciOiJFUzUxMiIsInR5cCI6IkpXVCJ9" + "." + strings.Split(token, ".")[1] + "." + strings.Split(token, ".")[2]
	assert.ErrorIs(t, manager.Verify(tokenNonHS256Alg), domain.ErrInvalidSigningAlg)

	tokenNoneAlg := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0" + "." + strings.Split(token, ".")[1] + "."
	assert.ErrorIs(t, manager.Verify(tokenNoneAlg), domain.ErrInvalidSigningAlg)

	corruptedToken := "stemretmretm"
	assert.ErrorIs(t, manager.Verify(corruptedToken), domain.ErrCorruptedToken)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()
	ours := NewTokenManager(testSecret, time.Hour)
	theirs := NewTokenManager("a completely different key", time.Hour)

	token, err := theirs.Generate(time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, ours.Verify(token), domain.ErrInvalidTokenSignature)
}
