package pg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LeonMueller-OneAndOnly/blitz/core/session"
)

func TestBuildPatch_Empty(t *testing.T) {
	sets, args := buildPatch(session.RecordPatch{})
	assert.Empty(t, sets)
	assert.Empty(t, args)
}

func TestBuildPatch_Single(t *testing.T) {
	data := `{"userId":"u1"}`
	sets, args := buildPatch(session.RecordPatch{PublicData: &data})

	assert.Equal(t, []string{"public_data = $1"}, sets)
	assert.Equal(t, []any{data}, args)
}

func TestBuildPatch_All(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour)
	publicData := `{"userId":"u1"}`
	privateData := `{"cart":[]}`

	sets, args := buildPatch(session.RecordPatch{
		ExpiresAt:   &expiresAt,
		PublicData:  &publicData,
		PrivateData: &privateData,
	})

	assert.Equal(t, []string{"expires_at = $1", "public_data = $2", "private_data = $3"}, sets)
	assert.Equal(t, []any{expiresAt, publicData, privateData}, args)
}
