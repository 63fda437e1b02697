package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpos/warehouse-service/internal/apperr"
)

func TestParseQualityStatus(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "quarantined", "rejected"} {
		status, err := ParseQualityStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, QualityStatus(valid), status)
	}

	_, err := ParseQualityStatus("Rejected")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}
