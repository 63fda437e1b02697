package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxpos/warehouse-service/internal/apperr"
)

func TestParseSerialStatus(t *testing.T) {
	status, err := ParseSerialStatus("in_stock")
	require.NoError(t, err)
	assert.Equal(t, SerialInStock, status)

	_, err = ParseSerialStatus("melted")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestSerialTransitions(t *testing.T) {
	cases := []struct {
		from    SerialStatus
		to      SerialStatus
		allowed bool
	}{
		{SerialInStock, SerialReserved, true},
		{SerialInStock, SerialSold, true},
		{SerialInStock, SerialBlocked, true},
		{SerialInStock, SerialScrapped, true},
		{SerialReserved, SerialInStock, true},
		{SerialReserved, SerialSold, true},
		{SerialReserved, SerialBlocked, true},
		{SerialReserved, SerialScrapped, false},
		{SerialBlocked, SerialInStock, true},
		{SerialBlocked, SerialScrapped, true},
		{SerialBlocked, SerialSold, false},
		{SerialSold, SerialInStock, false},
		{SerialSold, SerialScrapped, false},
		{SerialScrapped, SerialInStock, false},
		{SerialScrapped, SerialSold, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestAllowedWhenLotBlocked(t *testing.T) {
	assert.True(t, SerialBlocked.AllowedWhenLotBlocked())
	assert.True(t, SerialScrapped.AllowedWhenLotBlocked())
	assert.False(t, SerialSold.AllowedWhenLotBlocked())
	assert.False(t, SerialReserved.AllowedWhenLotBlocked())
	assert.False(t, SerialInStock.AllowedWhenLotBlocked())
}
