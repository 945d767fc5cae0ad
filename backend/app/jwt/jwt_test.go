package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "jkwi-ims", ExpMin: 5}
	tok, err := s.Sign("abc123", "winner001", "member")
	require.NoError(t, err)

	c, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc123", c.UserID)
	assert.Equal(t, "winner001", c.Username)
	assert.Equal(t, "member", c.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	s := &Signer{Secret: []byte("k"), Issuer: "jkwi-ims", ExpMin: 5}
	tok, err := s.Sign("abc123", "u", "member")
	require.NoError(t, err)

	other := &Signer{Secret: []byte("other"), Issuer: "jkwi-ims", ExpMin: 5}
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Signer{Secret: []byte("k"), Issuer: "jkwi-ims", ExpMin: 1, Now: func() time.Time { return issued }}
	tok, err := s.Sign("abc123", "u", "member")
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(time.Hour) }
	_, err = s.Parse(tok)
	assert.Error(t, err)
}
