package relay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answering(query string, payload any) Listener {
	return func(_ context.Context, msg *Message) Result {
		if msg.Query != query {
			return NotHandled()
		}
		return Handled(payload)
	}
}

func counting(calls *atomic.Int32, r Result) Listener {
	return func(context.Context, *Message) Result {
		calls.Add(1)
		return r
	}
}

func TestChannelAddIsSetNotAppend(t *testing.T) {
	ch := NewChannel()

	assert.True(t, ch.Add("people", answering("getPeopleInfo", 1)))
	assert.False(t, ch.Add("people", answering("getPeopleInfo", 2)))
	assert.Equal(t, 1, ch.Len())

	// the first listener stays
	r := ch.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
	assert.Equal(t, 1, r.Payload())
}

func TestChannelRemoveMissingIsNoop(t *testing.T) {
	ch := NewChannel()
	assert.False(t, ch.Remove("nobody"))
	assert.Equal(t, 0, ch.Len())
}

func TestChannelReplaceTwiceLeavesOne(t *testing.T) {
	ch := NewChannel()
	var calls atomic.Int32

	ch.Replace("people", counting(&calls, Handled("a")))
	ch.Replace("people", counting(&calls, Handled("b")))

	assert.Equal(t, 1, ch.Len())

	r := ch.Dispatch(context.Background(), NewMessage("anything", nil))
	assert.Equal(t, "b", r.Payload())
	assert.Equal(t, int32(1), calls.Load())
}

func TestChannelDispatchOrder(t *testing.T) {
	ch := NewChannel()
	var skipped, second, third atomic.Int32

	ch.Add("a", counting(&skipped, NotHandled()))
	ch.Add("b", counting(&second, Handled("b")))
	ch.Add("c", counting(&third, Handled("c")))

	r := ch.Dispatch(context.Background(), NewMessage("x", nil))

	assert.Equal(t, "b", r.Payload())
	assert.Equal(t, "b", r.Domain())
	assert.Equal(t, int32(1), skipped.Load())
	assert.Equal(t, int32(0), third.Load())
	assert.Equal(t, []string{"a", "b", "c"}, ch.IDs())
}

func TestChannelDispatchFailureStopsWalk(t *testing.T) {
	ch := NewChannel()
	var later atomic.Int32
	boom := errors.New("boom")

	ch.Add("a", counting(new(atomic.Int32), Failed(boom)))
	ch.Add("b", counting(&later, Handled("b")))

	r := ch.Dispatch(context.Background(), NewMessage("x", nil))

	assert.True(t, r.IsFailed())
	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, int32(0), later.Load())
}

func TestChannelDispatchUnhandled(t *testing.T) {
	ch := NewChannel()
	ch.Add("a", answering("known", "x"))

	r := ch.Dispatch(context.Background(), NewMessage("unknown", nil))

	assert.Equal(t, KindNotHandled, r.Kind())
	_, reply := r.Reply()
	assert.False(t, reply)
}

func TestChannelDispatchCancelled(t *testing.T) {
	ch := NewChannel()
	var calls atomic.Int32
	ch.Add("a", counting(&calls, Handled("x")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := ch.Dispatch(ctx, NewMessage("x", nil))
	assert.True(t, r.IsFailed())
	assert.ErrorIs(t, r.Err(), context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestChannelOnChange(t *testing.T) {
	ch := NewChannel()
	var counts []int
	ch.OnChange(func(n int) { counts = append(counts, n) })

	ch.Add("a", answering("a", nil))
	ch.Add("a", answering("a", nil))
	ch.Replace("b", answering("b", nil))
	ch.Remove("a")
	ch.Remove("a")

	assert.Equal(t, []int{1, 2, 1}, counts)
}

func TestChannelConcurrentReplaceAndDispatch(t *testing.T) {
	ch := NewChannel()
	ch.Add("people", answering("getPeopleInfo", "ok"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch.Replace("people", answering("getPeopleInfo", "ok"))
		}()
		go func() {
			defer wg.Done()
			// dispatch may land between remove and add of another goroutine's
			// replace only if Replace were not atomic
			r := ch.Dispatch(context.Background(), NewMessage("getPeopleInfo", nil))
			assert.True(t, r.IsHandled())
		}()
	}
	wg.Wait()

	require.Equal(t, 1, ch.Len())
}

func TestResultReply(t *testing.T) {
	v, ok := Handled(map[string]any{"code": 0}).Reply()
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"code": 0}, v)

	v, ok = Failed(errors.New("x")).Reply()
	assert.True(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, "handled", KindHandled.String())
	assert.Equal(t, "failed", KindFailed.String())
	assert.Equal(t, "not_handled", KindNotHandled.String())
}
