package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderInput struct {
	Tone     string `json:"tone" validate:"required,is-order-tone"`
	Pace     string `json:"pace" validate:"omitempty,is-order-pace"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=100"`
}

func TestValidate_CustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&orderInput{Tone: "friendly", Pace: "fast", Quantity: 5}))

	err := v.Validate(&orderInput{Tone: "angry", Pace: "turbo", Quantity: 0})
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Errors, "tone")
	assert.Contains(t, verr.Errors, "pace")
	assert.Contains(t, verr.Errors, "quantity")
}

func TestVar_TrustLevel(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("GOLD", "is-trust-level"))
	assert.Error(t, v.Var("DIAMOND", "is-trust-level"))
}

func TestValidate_Messages(t *testing.T) {
	v := New()

	err := v.Validate(&orderInput{Tone: "angry", Quantity: 500})
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be one of: friendly, professional, enthusiastic, neutral", verr.Errors["tone"])
	assert.Equal(t, "Must be at most 100", verr.Errors["quantity"])
	assert.Contains(t, verr.Error(), "field 'quantity'")
}
