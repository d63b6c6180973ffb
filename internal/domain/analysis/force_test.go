package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForce(t *testing.T) {
	t.Run("accepts every member of the closed set", func(t *testing.T) {
		for _, f := range Forces() {
			parsed, err := ParseForce(string(f))
			require.NoError(t, err)
			assert.Equal(t, f, parsed)
		}
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		for _, label := range []string{"", "pain", "PULL_OF_NEW", "pain-of-old", "habit"} {
			_, err := ParseForce(label)
			assert.Error(t, err, "label %q", label)
		}
	})
}

func TestForceValid(t *testing.T) {
	assert.True(t, ForcePainOfOld.Valid())
	assert.True(t, ForceDemographic.Valid())
	assert.False(t, Force("momentum").Valid())
	assert.False(t, Force("").Valid())
}

func TestForces(t *testing.T) {
	assert.Equal(t, []Force{
		ForcePainOfOld,
		ForcePullOfNew,
		ForceAnchorsToOld,
		ForceAnxietyOfNew,
		ForceDemographic,
	}, Forces())
}
