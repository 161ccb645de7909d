package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterNoListenersIsSilent(t *testing.T) {
	e := newEmitter()

	assert.NotPanics(t, func() {
		e.emit("nobody-cares", 1, 2, 3)
	})
}

func TestEmitterPositionalArgs(t *testing.T) {
	e := newEmitter()

	var got []interface{}
	e.on("tick", func(args ...interface{}) {
		got = args
	})

	e.emit("tick", float64(1), float64(2))
	assert.Equal(t, []interface{}{float64(1), float64(2)}, got)

	e.emit("tick")
	assert.Empty(t, got)
}

func TestEmitterRegistrationOrder(t *testing.T) {
	e := newEmitter()

	var order []int
	for i := 0; i < 5; i++ {
		n := i
		e.on("evt", func(args ...interface{}) {
			order = append(order, n)
		})
	}

	e.emit("evt")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestEmitterOnce(t *testing.T) {
	e := newEmitter()

	count := 0
	e.once("evt", func(args ...interface{}) {
		count++
	})

	e.emit("evt")
	e.emit("evt")
	assert.Equal(t, 1, count)
}

func TestEmitterOnceKeepsPersistentListeners(t *testing.T) {
	e := newEmitter()

	persistent := 0
	oneShot := 0
	e.on("evt", func(args ...interface{}) { persistent++ })
	e.once("evt", func(args ...interface{}) { oneShot++ })

	e.emit("evt")
	e.emit("evt")

	assert.Equal(t, 2, persistent)
	assert.Equal(t, 1, oneShot)
}

func TestEmitterOff(t *testing.T) {
	e := newEmitter()

	count := 0
	e.on("evt", func(args ...interface{}) { count++ })
	e.off("evt")

	e.emit("evt")
	assert.Equal(t, 0, count)
}

func TestEmitterHandlerMayRegisterListener(t *testing.T) {
	e := newEmitter()

	nested := false
	e.once("outer", func(args ...interface{}) {
		e.on("inner", func(args ...interface{}) {
			nested = true
		})
	})

	require.NotPanics(t, func() {
		e.emit("outer")
	})
	e.emit("inner")
	assert.True(t, nested)
}
