package tip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S4ntifdz/tableside-go/internal/money"
)

func TestPresetTipRoundsPerDisplayRule(t *testing.T) {
	policy := DefaultPolicy()

	// 15% of 45.50 is 6.825, displayed as 6.83
	owed := money.Cents(4550)
	tip, err := policy.Tip(owed, Percent(15))
	require.NoError(t, err)
	assert.Equal(t, money.Cents(683), tip)

	total, err := policy.TotalWithTip(owed, Percent(15))
	require.NoError(t, err)
	assert.Equal(t, money.Cents(5233), total)
	assert.Equal(t, "52.33", total.String())
}

func TestNoTipSelection(t *testing.T) {
	tip, err := DefaultPolicy().Tip(4550, Selection{})
	require.NoError(t, err)
	assert.Zero(t, tip)
}

func TestUnknownPresetRejected(t *testing.T) {
	_, err := DefaultPolicy().Tip(4550, Percent(17))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestCustomAmount(t *testing.T) {
	policy := DefaultPolicy()

	tip, err := policy.Tip(4550, Custom(500))
	require.NoError(t, err)
	assert.Equal(t, money.Cents(500), tip)

	// explicit zero override is a valid "no tip"
	tip, err = policy.Tip(4550, Custom(0))
	require.NoError(t, err)
	assert.Zero(t, tip)

	_, err = policy.Tip(4550, Custom(-100))
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestCustomAmountCanBeDisallowed(t *testing.T) {
	policy := Policy{Presets: []int{10, 15, 20}}
	_, err := policy.Tip(4550, Custom(500))
	assert.ErrorIs(t, err, ErrCustomNotAllowed)
}
