package ir

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupReturnsRegistered(t *testing.T) {
	r := NewRegistry()
	gelu := newGelu(t)
	require.NoError(t, r.Register(gelu))

	got, err := r.Lookup("Gelu")
	require.NoError(t, err)
	assert.True(t, got.Equal(gelu))
	assert.True(t, r.Has("Gelu"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("UnknownOp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOperator))

	var unknown *UnknownOperatorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "UnknownOp", unknown.Name)
}

func TestRegistryIdenticalReRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newGelu(t)))
	require.NoError(t, r.Register(newGelu(t)))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConflictingRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newGelu(t)))

	conflicting := MustDescriptor("Gelu", 1, 1, "opset2", CopyShape)
	err := r.Register(conflicting)
	require.Error(t, err)

	var dup *DuplicateOperatorError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Gelu", dup.Name)
	assert.ErrorIs(t, err, ErrDuplicateOperator)

	got, err := r.Lookup("Gelu")
	require.NoError(t, err)
	assert.Equal(t, "opset7", got.Version(), "first registration wins")
}

func TestRegistryRejectsNil(t *testing.T) {
	err := NewRegistry().Register(nil)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newGelu(t))
	assert.Panics(t, func() {
		r.MustRegister(MustDescriptor("Gelu", 2, 1, "opset7", CopyShape))
	})
}

func TestRegistrySeal(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newGelu(t)))
	r.Seal()
	assert.True(t, r.Sealed())

	err := r.Register(MustDescriptor("Relu", 1, 1, "opset1", CopyShape))
	assert.ErrorIs(t, err, ErrRegistrySealed)

	// Identical re-registration stays idempotent after sealing.
	require.NoError(t, r.Register(newGelu(t)))
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Tanh", "Add", "Gelu"} {
		r.MustRegister(MustDescriptor(name, 1, 1, "opset1", CopyShape))
	}
	assert.Equal(t, []string{"Add", "Gelu", "Tanh"}, r.Names())
}

func TestRegistryConcurrentRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(newGelu(t))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(MustDescriptor(fmt.Sprintf("Op%d", i), 1, 1, "opset1", CopyShape))
		}(i)
		go func() {
			defer wg.Done()
			_, err := r.Lookup("Gelu")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 17, r.Len())
}
