// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperhub/pkg/types"
)

const feedBody = "<feed>...</feed>"

// relayServer answers every request with handler and records the relayed
// target from the url query parameter.
func relayServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var target atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target.Store(r.URL.Query().Get("url"))
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, &target
}

func hang(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(5 * time.Second):
	}
}

func status(code int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(code) }
}

func body(s string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, s) }
}

func relay(name string, ts *httptest.Server) types.RelayEndpoint {
	return types.RelayEndpoint{Name: name, Base: ts.URL + "/raw?url="}
}

func TestFetchFallsBackToDirect(t *testing.T) {
	slow, _ := relayServer(t, hang)
	broken, seen := relayServer(t, status(http.StatusInternalServerError))
	direct := httptest.NewServer(http.HandlerFunc(body(feedBody)))
	defer direct.Close()

	target := direct.URL + "/api/query?search_query=all:%22llm%22&start=0"
	r := &Racer{
		Relays:  []types.RelayEndpoint{relay("a", slow), relay("b", broken)},
		Timeout: 100 * time.Millisecond,
		Log:     zerolog.Nop(),
	}

	got, err := r.Fetch(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, feedBody, got)
	assert.Equal(t, target, seen.Load(), "relay receives the decoded target URL")
}

func TestFetchFirstSuccessWins(t *testing.T) {
	var directCalls int32
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&directCalls, 1)
	}))
	defer direct.Close()

	slow, _ := relayServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			fmt.Fprint(w, "slow")
		}
	})
	fast, _ := relayServer(t, body("fast"))

	r := &Racer{
		Relays:  []types.RelayEndpoint{relay("slow", slow), relay("fast", fast)},
		Timeout: 5 * time.Second,
	}

	start := time.Now()
	got, err := r.Fetch(context.Background(), direct.URL)
	require.NoError(t, err)
	assert.Equal(t, "fast", got)
	assert.Less(t, time.Since(start), time.Second, "slow relay must not block the race")
	assert.Zero(t, atomic.LoadInt32(&directCalls))
}

func TestRaceCancelsLosers(t *testing.T) {
	cancelled := make(chan struct{})
	slow, _ := relayServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			close(cancelled)
		case <-time.After(5 * time.Second):
		}
	})
	fast, _ := relayServer(t, body("ok"))

	r := &Racer{Timeout: 5 * time.Second}
	got, err := r.Race(context.Background(), RelayAttempts(
		[]types.RelayEndpoint{relay("slow", slow), relay("fast", fast)}, "https://example.org/x"))
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("losing attempt was not cancelled")
	}
}

func TestFetchAllAttemptsFailed(t *testing.T) {
	slow, _ := relayServer(t, hang)
	broken, _ := relayServer(t, status(http.StatusBadGateway))
	direct := httptest.NewServer(http.HandlerFunc(status(http.StatusServiceUnavailable)))
	defer direct.Close()

	r := &Racer{
		Relays:  []types.RelayEndpoint{relay("a", slow), relay("b", broken)},
		Timeout: 100 * time.Millisecond,
	}

	got, err := r.Fetch(context.Background(), direct.URL)
	require.Error(t, err)
	assert.Empty(t, got)

	var all *AllAttemptsFailedError
	require.ErrorAs(t, err, &all)
	require.Len(t, all.Attempts, 3)
	assert.Equal(t, "direct", all.Attempts[2].Label)
	assert.ErrorIs(t, err, ErrAttemptTimeout)

	labels := map[string]string{}
	for _, a := range all.Attempts {
		labels[a.Label] = a.Err.Error()
	}
	assert.Contains(t, labels["b"], "HTTP 502")
	assert.Contains(t, labels["direct"], "HTTP 503")
	assert.Contains(t, labels["a"], "timeout")
}

func TestFetchWithoutRelaysGoesDirect(t *testing.T) {
	direct := httptest.NewServer(http.HandlerFunc(body(feedBody)))
	defer direct.Close()

	got, err := (&Racer{}).Fetch(context.Background(), direct.URL)
	require.NoError(t, err)
	assert.Equal(t, feedBody, got)
}

func TestFetchDirectRetriesRateLimit(t *testing.T) {
	var calls int32
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, feedBody)
	}))
	defer direct.Close()

	r := &Racer{DirectRetries: 2, Timeout: 2 * time.Second}
	got, err := r.Fetch(context.Background(), direct.URL)
	require.NoError(t, err)
	assert.Equal(t, feedBody, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchJSONEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr string
	}{
		{"contents", `{"contents":"<feed/>","status":{"http_code":200}}`, "<feed/>", ""},
		{"no status", `{"contents":"<feed/>"}`, "<feed/>", ""},
		{"relayed error", `{"contents":"","status":{"http_code":404}}`, "", "relayed HTTP 404"},
		{"missing contents", `{"status":{"http_code":200}}`, "", "no contents"},
		{"not json", `<html>`, "", "decoding relay envelope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := relayServer(t, body(tt.payload))
			r := &Racer{Timeout: time.Second}
			got, err := r.Race(context.Background(), RelayAttempts([]types.RelayEndpoint{
				{Name: "allorigins", Base: ts.URL + "/get?url=", Encoding: types.EncodingJSON},
			}, "https://example.org"))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRaceNoAttempts(t *testing.T) {
	_, err := (&Racer{}).Race(context.Background(), nil)
	var all *AllAttemptsFailedError
	require.ErrorAs(t, err, &all)
	assert.Empty(t, all.Attempts)
}

func TestRaceParentCancelled(t *testing.T) {
	ts, _ := relayServer(t, hang)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Racer{Timeout: time.Second}).Race(ctx, RelayAttempts(
		[]types.RelayEndpoint{relay("a", ts)}, "https://example.org"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRelayAttempts(t *testing.T) {
	relays := []types.RelayEndpoint{
		{Name: "suffix", Base: "https://relay.example/raw?url="},
		{Base: "https://relay.example/{url}/fetch"},
	}
	attempts := RelayAttempts(relays, "https://export.arxiv.org/api/query?start=0&max_results=5")
	require.Len(t, attempts, 2)
	assert.Equal(t, "suffix", attempts[0].Label)
	assert.Equal(t, "https://relay.example/raw?url=https%3A%2F%2Fexport.arxiv.org%2Fapi%2Fquery%3Fstart%3D0%26max_results%3D5", attempts[0].URL)
	assert.Equal(t, "relay-1", attempts[1].Label)
	assert.Equal(t, "https://relay.example/https%3A%2F%2Fexport.arxiv.org%2Fapi%2Fquery%3Fstart%3D0%26max_results%3D5/fetch", attempts[1].URL)
}

func TestRaceWithParseRejectsBadBodies(t *testing.T) {
	garbage, _ := relayServer(t, body("<html>rate limited</html>"))
	good, _ := relayServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `["ok"]`)
	})

	parse := func(b string) (string, error) {
		if len(b) == 0 || b[0] != '[' {
			return "", errors.New("not a json array")
		}
		return "parsed:" + b, nil
	}

	r := &Racer{Timeout: time.Second}
	got, err := r.RaceWith(context.Background(), RelayAttempts(
		[]types.RelayEndpoint{relay("garbage", garbage), relay("good", good)}, "https://example.org"), parse)
	require.NoError(t, err)
	assert.Equal(t, `parsed:["ok"]`, got)
}

func TestFetchWithParsesDirectFallback(t *testing.T) {
	garbage, _ := relayServer(t, body("<html>blocked</html>"))

	var directCalls atomic.Int32
	direct := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		directCalls.Add(1)
		fmt.Fprint(w, feedBody)
	}))
	defer direct.Close()

	parse := func(b string) (string, error) {
		if b != feedBody {
			return "", errors.New("not a feed")
		}
		return b, nil
	}

	r := &Racer{Relays: []types.RelayEndpoint{relay("garbage", garbage)}, Timeout: time.Second}
	got, err := r.FetchWith(context.Background(), direct.URL, parse)
	require.NoError(t, err)
	assert.Equal(t, feedBody, got)
	assert.Equal(t, int32(1), directCalls.Load())

	_, err = r.FetchWith(context.Background(), garbage.URL, parse)
	var all *AllAttemptsFailedError
	require.ErrorAs(t, err, &all)
	assert.Len(t, all.Attempts, 2)
	assert.Equal(t, "direct", all.Attempts[1].Label)
}
