package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFiling(t *testing.T) {
	assert.NoError(t, ValidateFiling(TargetPost, "spam"))
	assert.NoError(t, ValidateFiling(TargetListing, "scam"))

	assert.ErrorIs(t, ValidateFiling("booking", "spam"), ErrBadTarget)
	assert.ErrorIs(t, ValidateFiling("", "spam"), ErrBadTarget)
	assert.ErrorIs(t, ValidateFiling(TargetProfile, ""), ErrNoReason)
}

func TestHideable(t *testing.T) {
	assert.True(t, Hideable(TargetPost))
	assert.True(t, Hideable(TargetListing))
	assert.True(t, Hideable(TargetProfile))

	// Comments are only referenced by reports; there is no row to hide.
	assert.False(t, Hideable(TargetComment))
	assert.False(t, Hideable("booking"))
}
