package ir

import (
	"errors"
	"testing"

	"github.com/born-ml/opset/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptorValidation(t *testing.T) {
	tests := []struct {
		name string
		op   string
		in   int
		out  int
		fn   InferFunc
		opts []DescriptorOption
	}{
		{"empty name", "", 1, 1, CopyShape, nil},
		{"negative inputs", "X", -1, 1, CopyShape, nil},
		{"negative outputs", "X", 1, -1, CopyShape, nil},
		{"nil infer", "X", 1, 1, nil, nil},
		{"reserved default", "X", 1, 1, CopyShape, []DescriptorOption{WithDefault(PropInPortsCount, Int(2))}},
		{"duplicate schema entry", "X", 1, 1, CopyShape, []DescriptorOption{
			WithBackendAttrs("v1", AttrSpec{Name: "a", Kind: AttrInt}, AttrSpec{Name: "a", Kind: AttrInt}),
		}},
		{"default kind mismatch", "X", 1, 1, CopyShape, []DescriptorOption{
			WithDefault("a", String("x")),
			WithBackendAttrs("v1", AttrSpec{Name: "a", Kind: AttrInt}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor(tt.op, tt.in, tt.out, "v1", tt.fn, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor))
		})
	}
}

func TestMustDescriptorPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustDescriptor("", 1, 1, "v1", CopyShape)
	})
}

func TestDescriptorBackendAttributes(t *testing.T) {
	gelu := newGelu(t)

	assert.Equal(t, []string{"approximation_mode"}, gelu.BackendAttributes("opset7"))

	for _, version := range []string{"opset1", "opset8", "", "extension"} {
		attrs := gelu.BackendAttributes(version)
		assert.NotNil(t, attrs, version)
		assert.Empty(t, attrs, version)
	}
}

func TestDescriptorBackendAttributesOrder(t *testing.T) {
	d := MustDescriptor("Clamp", 1, 1, "opset1", CopyShape,
		WithBackendAttrs("opset1",
			AttrSpec{Name: "min", Kind: AttrFloat},
			AttrSpec{Name: "max", Kind: AttrFloat},
		),
	)
	assert.Equal(t, []string{"min", "max"}, d.BackendAttributes("opset1"))
	assert.Equal(t, []string{"opset1"}, d.Versions())
}

func TestDescriptorDefaultProperties(t *testing.T) {
	props := newGelu(t).DefaultProperties()

	assert.Equal(t, "Gelu", props.String(PropType, ""))
	assert.Equal(t, "Gelu", props.String(PropOp, ""))
	assert.Equal(t, int64(1), props.Int(PropInPortsCount, -1))
	assert.Equal(t, int64(1), props.Int(PropOutPortsCount, -1))
	assert.Equal(t, "opset7", props.String(PropVersion, ""))
	assert.Equal(t, "ERF", props.String("approximation_mode", ""))
}

func TestDescriptorWithReturnsNewDescriptor(t *testing.T) {
	gelu := newGelu(t)

	tanh, err := gelu.With(WithDefault("approximation_mode", String("TANH")))
	require.NoError(t, err)

	assert.Equal(t, "ERF", gelu.Defaults().String("approximation_mode", ""))
	assert.Equal(t, "TANH", tanh.Defaults().String("approximation_mode", ""))
	assert.False(t, gelu.Equal(tanh))

	_, err = gelu.With(WithDefault("approximation_mode", Int(1)))
	require.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestDescriptorEqual(t *testing.T) {
	a := newGelu(t)
	b := newGelu(t)
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(nil))

	otherInfer := func(_ Attributes, in []tensor.Shape) ([]tensor.Shape, error) { return in, nil }
	c := MustDescriptor("Gelu", 1, 1, "opset7", otherInfer,
		WithDefault("approximation_mode", String("ERF")),
		WithBackendAttrs("opset7", AttrSpec{Name: "approximation_mode", Kind: AttrString}),
	)
	assert.False(t, a.Equal(c), "different inference function")

	d, err := a.With(WithBackendAttrs("opset8", AttrSpec{Name: "approximation_mode", Kind: AttrString}))
	require.NoError(t, err)
	assert.False(t, a.Equal(d), "different version table")
}

func TestDescriptorString(t *testing.T) {
	assert.Equal(t, "Gelu(1->1, opset7)", newGelu(t).String())
}
