// Package tip computes the optional gratuity applied at payment time.
// Tips operate on the server-reported owed total, never on the local
// cart: once an order is placed, pricing authority is server-side.
package tip

import (
	"errors"
	"fmt"

	"github.com/S4ntifdz/tableside-go/internal/money"
)

var (
	// ErrCustomNotAllowed is returned when the policy restricts diners
	// to the preset percentages.
	ErrCustomNotAllowed = errors.New("custom tip amounts are not allowed")

	// ErrUnknownPreset is returned for a percentage not in the preset
	// list.
	ErrUnknownPreset = errors.New("unknown tip preset")

	// ErrNegativeAmount is returned for a negative custom amount.
	ErrNegativeAmount = errors.New("tip amount cannot be negative")
)

// DefaultPresets mirror the fixed list shown on the payment screen.
var DefaultPresets = []int{10, 15, 20}

// Policy is the configurable tip rule. The original client shipped
// several drifted payment-page variants; which presets apply and
// whether free-form overrides are allowed is policy here, not
// hard-coded flow.
type Policy struct {
	Presets     []int
	AllowCustom bool
}

func DefaultPolicy() Policy {
	return Policy{Presets: DefaultPresets, AllowCustom: true}
}

// Selection is either a preset percentage or a free-form override
// amount. Zero value means no tip.
type Selection struct {
	Percent int
	Custom  money.Cents
	// IsCustom distinguishes an explicit zero-amount override from a
	// percentage selection.
	IsCustom bool
}

func Percent(p int) Selection {
	return Selection{Percent: p}
}

func Custom(amount money.Cents) Selection {
	return Selection{Custom: amount, IsCustom: true}
}

// Tip resolves the selection against the owed total, rounding
// percentage tips half up to the cent.
func (p Policy) Tip(owed money.Cents, sel Selection) (money.Cents, error) {
	if sel.IsCustom {
		if !p.AllowCustom {
			return 0, ErrCustomNotAllowed
		}
		if sel.Custom < 0 {
			return 0, ErrNegativeAmount
		}
		return sel.Custom, nil
	}

	if sel.Percent == 0 {
		return 0, nil
	}
	for _, preset := range p.Presets {
		if sel.Percent == preset {
			return owed.Percent(preset * 100), nil
		}
	}
	return 0, fmt.Errorf("%w: %d%%", ErrUnknownPreset, sel.Percent)
}

// TotalWithTip is owed plus the resolved tip.
func (p Policy) TotalWithTip(owed money.Cents, sel Selection) (money.Cents, error) {
	t, err := p.Tip(owed, sel)
	if err != nil {
		return 0, err
	}
	return owed + t, nil
}
