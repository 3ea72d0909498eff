package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPointsProposal(t *testing.T) {
	p, err := NewPointsProposal("item-1")
	require.NoError(t, err)
	assert.Equal(t, SwapPoints, p.Type())
	assert.Equal(t, "item-1", p.OwnerItemID())
	assert.Nil(t, p.RequesterItemID())

	_, err = NewPointsProposal("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewDirectProposal(t *testing.T) {
	p, err := NewDirectProposal("item-1", "item-2")
	require.NoError(t, err)
	assert.Equal(t, SwapDirect, p.Type())
	assert.Equal(t, "item-1", p.OwnerItemID())
	require.NotNil(t, p.RequesterItemID())
	assert.Equal(t, "item-2", *p.RequesterItemID())

	// An item cannot be offered against itself
	_, err = NewDirectProposal("item-1", "item-1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDirectProposal("item-1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewSwapProposalFromWire(t *testing.T) {
	offered := "item-2"

	tests := []struct {
		name            string
		swapType        string
		ownerItemID     string
		requesterItemID *string
		wantErr         bool
	}{
		{"valid points", "points", "item-1", nil, false},
		{"valid direct", "direct", "item-1", &offered, false},
		{"points with offered item", "points", "item-1", &offered, true},
		{"direct without offered item", "direct", "item-1", nil, true},
		{"unknown type", "barter", "item-1", nil, true},
		{"empty type", "", "item-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSwapProposal(tt.swapType, tt.ownerItemID, tt.requesterItemID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SwapType(tt.swapType), p.Type())
		})
	}
}

func TestValidCategoryAndCondition(t *testing.T) {
	assert.True(t, ValidCategory("outerwear"))
	assert.False(t, ValidCategory("gadgets"))
	assert.False(t, ValidCategory(""))

	assert.True(t, ValidCondition("like-new"))
	assert.False(t, ValidCondition("worn-out"))
}
