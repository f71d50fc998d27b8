package invocations

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/galaxybio/blend/core"
	"github.com/stretchr/testify/require"
)

func Test_Client_Wait_TerminalStates(t *testing.T) {
	tests := []struct {
		state  core.InvocationState
		check  bool
		failed bool
	}{
		{core.InvocationStateScheduled, true, false},
		{core.InvocationStateCancelled, true, true},
		{core.InvocationStateFailed, true, true},
		{core.InvocationStateScheduled, false, false},
		{core.InvocationStateCancelled, false, false},
		{core.InvocationStateFailed, false, false},
	}

	for _, tt := range tests {
		name := tt.state.String()
		if tt.check {
			name += "_checked"
		}

		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{
				get: func(path string, params url.Values) (string, error) {
					return invocationBody("df7a1f0c02a5b08e", tt.state), nil
				},
			}
			c := New(api)

			invocation, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
				MaxWait:  time.Second,
				Interval: time.Millisecond,
				Check:    tt.check,
			})

			// terminal on the first poll, no sleeping involved
			require.Len(t, api.gets, 1)

			if tt.failed {
				var failedErr *InvocationFailedError
				require.ErrorAs(t, err, &failedErr)
				require.Equal(t, "df7a1f0c02a5b08e", failedErr.InvocationID)
				require.Equal(t, tt.state, failedErr.State)
				require.Nil(t, invocation)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.state, invocation.State)
			}
		})
	}
}

func Test_Client_Wait_Preconditions(t *testing.T) {
	api := &fakeAPI{}
	c := New(api)

	_, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  -time.Second,
		Interval: time.Second,
	})
	require.ErrorIs(t, err, ErrInvalidWaitOptions)

	_, err = c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  time.Second,
		Interval: 0,
	})
	require.ErrorIs(t, err, ErrInvalidWaitOptions)

	_, err = c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  time.Second,
		Interval: -time.Second,
	})
	require.ErrorIs(t, err, ErrInvalidWaitOptions)

	// precondition violations must not issue any request
	require.Empty(t, api.gets)
}

func Test_Client_Wait_ZeroBudget(t *testing.T) {
	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			return invocationBody("df7a1f0c02a5b08e", core.InvocationStateNew), nil
		},
	}
	c := New(api)

	started := time.Now()
	_, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  0,
		Interval: time.Hour,
		Check:    true,
	})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, core.InvocationStateNew, timeoutErr.State)
	require.Len(t, api.gets, 1)
	require.Less(t, time.Since(started), time.Second, "a zero budget must time out without sleeping")
}

func Test_Client_Wait_ZeroBudget_Terminal(t *testing.T) {
	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			return invocationBody("df7a1f0c02a5b08e", core.InvocationStateScheduled), nil
		},
	}
	c := New(api)

	// a terminal first observation wins over an exhausted budget
	invocation, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  0,
		Interval: time.Hour,
		Check:    true,
	})
	require.NoError(t, err)
	require.Equal(t, core.InvocationStateScheduled, invocation.State)
}

func Test_Client_Wait_StateTransitions(t *testing.T) {
	// new on the first poll, ready on the second, scheduled on the third
	states := []core.InvocationState{
		core.InvocationStateNew,
		core.InvocationStateReady,
		core.InvocationStateScheduled,
	}

	polls := 0
	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			state := states[polls]
			polls++
			return invocationBody("df7a1f0c02a5b08e", state), nil
		},
	}
	c := New(api)

	invocation, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  12 * time.Second,
		Interval: time.Millisecond,
		Check:    true,
	})
	require.NoError(t, err)
	require.Equal(t, core.InvocationStateScheduled, invocation.State)
	require.Equal(t, 3, polls)
}

func Test_Client_Wait_Timeout(t *testing.T) {
	// invocation stuck in ready forever
	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			return invocationBody("df7a1f0c02a5b08e", core.InvocationStateReady), nil
		},
	}
	c := New(api)

	// budget of 5 ticks of 3: sleeps 3 then min(2, 3)=2, then times out. The
	// poll count is bounded by ceil(MaxWait/Interval)+1 = 3.
	_, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  5 * time.Millisecond,
		Interval: 3 * time.Millisecond,
		Check:    true,
	})

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, "df7a1f0c02a5b08e", timeoutErr.InvocationID)
	require.Equal(t, core.InvocationStateReady, timeoutErr.State)
	require.Equal(t, 5*time.Millisecond, timeoutErr.MaxWait)

	require.Len(t, api.gets, 3)
}

func Test_Client_Wait_MockClock(t *testing.T) {
	mockClock := clock.NewMock()

	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			return invocationBody("df7a1f0c02a5b08e", core.InvocationStateReady), nil
		},
	}
	c := New(api, WithClock(mockClock))

	type waitResult struct {
		invocation *core.Invocation
		err        error
	}

	resultC := make(chan waitResult, 1)
	go func() {
		invocation, err := c.Wait(context.Background(), "df7a1f0c02a5b08e", WaitOptions{
			MaxWait:  6 * time.Second,
			Interval: 3 * time.Second,
			Check:    true,
		})
		resultC <- waitResult{invocation, err}
	}()

	// Drive the mock clock until the waiter exhausts its budget
	for {
		select {
		case result := <-resultC:
			var timeoutErr *TimeoutError
			require.ErrorAs(t, result.err, &timeoutErr)
			require.Nil(t, result.invocation)

			// ceil(6/3)+1 polls, two full sleeps of mock time
			require.Len(t, api.gets, 3)
			return
		default:
			mockClock.Add(500 * time.Millisecond)
		}
	}
}

func Test_Client_Wait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	api := &fakeAPI{
		get: func(path string, params url.Values) (string, error) {
			// cancel while the waiter would otherwise sleep for an hour
			cancel()
			return invocationBody("df7a1f0c02a5b08e", core.InvocationStateReady), nil
		},
	}
	c := New(api)

	_, err := c.Wait(ctx, "df7a1f0c02a5b08e", WaitOptions{
		MaxWait:  time.Hour,
		Interval: time.Hour,
		Check:    true,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, api.gets, 1)
}
