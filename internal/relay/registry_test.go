package relay

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	assert.ErrorIs(t, r.Register("", nil, answering("q", nil)), ErrEmptyDomain)
	assert.ErrorIs(t, r.Register("people", nil, nil), ErrNilHandler)
	assert.Empty(t, r.Domains())
}

func TestRegisterTwiceLeavesOnePair(t *testing.T) {
	r := NewRegistry(nil)
	var first, second atomic.Int32

	h1 := counting(&first, Handled("first"))
	h2 := counting(&second, Handled("second"))

	require.NoError(t, r.Register("people", ReplaceOnConnect("people", h1), h1))
	r.Connect()
	require.NoError(t, r.Register("people", ReplaceOnConnect("people", h2), h2))

	// re-registration removes the stale listener immediately
	assert.Equal(t, 0, r.Channel().Len())
	r.Connect()

	assert.Equal(t, []string{"people"}, r.Domains())
	res := r.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
	assert.Equal(t, "second", res.Payload())
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestRegisterIdempotentWithSameArguments(t *testing.T) {
	r := NewRegistry(nil)
	h := answering("getPeopleInfo", "ok")
	onConnect := ReplaceOnConnect("people", h)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Register("people", onConnect, h))
	}
	r.Connect()

	assert.Equal(t, []string{"people"}, r.Domains())
	assert.Equal(t, 1, r.Channel().Len())
}

func TestConnectTwiceNoDuplicateDelivery(t *testing.T) {
	r := NewRegistry(nil)
	var calls atomic.Int32
	h := func(_ context.Context, msg *Message) Result {
		if msg.Query != "getPeopleInfo" {
			return NotHandled()
		}
		calls.Add(1)
		return Handled("ok")
	}
	require.NoError(t, r.Register("people", nil, h))

	r.Connect()
	r.Connect()

	r.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(2), r.Stats().Connections)
}

func TestConnectRunsHandlersInRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)
	for _, d := range []string{"auth", "video", "user"} {
		require.NoError(t, r.Register(d, nil, answering(d, d)))
	}

	r.Connect()

	assert.Equal(t, []string{"auth", "video", "user"}, r.Channel().IDs())
	assert.Equal(t, Stats{
		Domains:     []string{"auth", "video", "user"},
		Listeners:   3,
		Connections: 1,
	}, r.Stats())
}

func TestUnregister(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("people", nil, answering("getPeopleInfo", "ok")))
	r.Connect()

	assert.True(t, r.Unregister("people"))
	assert.False(t, r.Unregister("people"))

	_, ok := r.Get("people")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Channel().Len())

	res := r.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
	assert.Equal(t, KindNotHandled, res.Kind())
}

func TestDispatchBeforeConnectIsUnhandled(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("people", nil, answering("getPeopleInfo", "ok")))

	res := r.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
	assert.Equal(t, KindNotHandled, res.Kind())
}
