package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(t *testing.T) JWTMgr {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return NewJWTManager(privateKey, publicKey, "gadget-server")
}

func TestJWTRoundTrip(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-1", AudienceSession, time.Hour))
	require.NoError(t, err)

	claims, err := jwtMgr.ValidateJWT(token, AudienceSession)
	require.NoError(t, err)

	sub, err := SubjectFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestJWTRejectsOtherAudience(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-1", AudiencePasswordReset, time.Hour))
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token, AudienceSession)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	jwtMgr := newTestJWTManager(t)

	token, err := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims("user-1", AudienceSession, -time.Minute))
	require.NoError(t, err)

	_, err = jwtMgr.ValidateJWT(token, AudienceSession)
	assert.Error(t, err)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	signer := newTestJWTManager(t)
	verifier := newTestJWTManager(t)

	token, err := signer.GenerateJWT(signer.GenerateClaims("user-1", AudienceSession, time.Hour))
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(token, AudienceSession)
	assert.Error(t, err)
}

func TestNewJWTManagerFromFilePersistsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "ed25519.key")

	first, err := NewJWTManagerFromFile(path, "gadget-server")
	require.NoError(t, err)
	token, err := first.GenerateJWT(first.GenerateClaims("user-1", AudienceSession, time.Hour))
	require.NoError(t, err)

	second, err := NewJWTManagerFromFile(path, "gadget-server")
	require.NoError(t, err)
	_, err = second.ValidateJWT(token, AudienceSession)
	assert.NoError(t, err)
}
