// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperhub/pkg/types"
)

// DefaultAttemptTimeout bounds each attempt when Racer.Timeout is unset.
const DefaultAttemptTimeout = 12 * time.Second

// ErrAttemptTimeout marks an attempt whose deadline fired before it settled.
var ErrAttemptTimeout = errors.New("timeout")

// Attempt is one request in a race: a relay-wrapped or direct URL.
type Attempt struct {
	Label    string
	URL      string
	Encoding types.RelayEncoding

	// Retries enables 429 backoff inside the attempt's deadline.
	Retries int
}

// AttemptError records why one attempt failed.
type AttemptError struct {
	Label string
	URL   string
	Err   error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Label, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// AllAttemptsFailedError is returned when no attempt succeeded. It carries
// every attempt's failure in the order the failures were observed.
type AllAttemptsFailedError struct {
	Attempts []*AttemptError
}

func (e *AllAttemptsFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no attempts to race"
	}
	msgs := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		msgs[i] = a.Error()
	}
	return fmt.Sprintf("all %d attempts failed: %s", len(e.Attempts), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AllAttemptsFailedError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a
	}
	return errs
}

// Racer fetches a URL through relay endpoints concurrently, keeping the
// first successful response.
type Racer struct {
	// Client performs the requests; nil means http.DefaultClient. Attempt
	// deadlines come from contexts, so Client.Timeout may stay zero.
	Client *http.Client

	// Relays are raced by Fetch before the direct fallback.
	Relays []types.RelayEndpoint

	// Timeout is the per-attempt deadline (default DefaultAttemptTimeout).
	Timeout time.Duration

	UserAgent string

	// DirectRetries enables 429 backoff on Fetch's direct fallback.
	DirectRetries int

	Log zerolog.Logger
}

// NewRacer builds a Racer from fetch settings.
func NewRacer(client *http.Client, cfg types.FetchConfig, log zerolog.Logger) *Racer {
	return &Racer{
		Client:        client,
		Relays:        cfg.Relays,
		Timeout:       cfg.Timeout,
		UserAgent:     cfg.UserAgent,
		DirectRetries: cfg.DirectRetries,
		Log:           log,
	}
}

// RelayAttempts wraps target in each relay endpoint.
func RelayAttempts(relays []types.RelayEndpoint, target string) []Attempt {
	encoded := url.QueryEscape(target)
	attempts := make([]Attempt, len(relays))
	for i, relay := range relays {
		label := relay.Name
		if label == "" {
			label = fmt.Sprintf("relay-%d", i)
		}
		attempts[i] = Attempt{
			Label:    label,
			URL:      relay.Wrap(encoded),
			Encoding: relay.Encoding,
		}
	}
	return attempts
}

// Fetch races target across the configured relays and returns the first
// successful body. If every relay fails, one direct request is made. The
// error is an *AllAttemptsFailedError covering relays and direct attempt.
func (r *Racer) Fetch(ctx context.Context, target string) (string, error) {
	return r.FetchWith(ctx, target, nil)
}

// FetchWith is Fetch with parse applied to every body, relays and direct
// alike.
func (r *Racer) FetchWith(ctx context.Context, target string, parse ParseFunc) (string, error) {
	var failed []*AttemptError

	if len(r.Relays) > 0 {
		body, err := r.RaceWith(ctx, RelayAttempts(r.Relays, target), parse)
		if err == nil {
			return body, nil
		}
		var all *AllAttemptsFailedError
		if errors.As(err, &all) {
			failed = append(failed, all.Attempts...)
		}
		r.Log.Warn().Err(err).Msg("all relays failed, trying direct")
	}

	direct := Attempt{Label: "direct", URL: target, Encoding: types.EncodingRaw, Retries: r.DirectRetries}
	body, attemptErr := r.try(ctx, direct)
	if attemptErr == nil && parse != nil {
		parsed, err := parse(body)
		if err == nil {
			return parsed, nil
		}
		attemptErr = &AttemptError{Label: direct.Label, URL: direct.URL, Err: err}
	}
	if attemptErr == nil {
		return body, nil
	}
	return "", &AllAttemptsFailedError{Attempts: append(failed, attemptErr)}
}

// Race starts every attempt concurrently, each under its own deadline, and
// returns the first successful body. The remaining attempts are cancelled
// once a winner is found. A failing or timed-out attempt never affects its
// siblings.
func (r *Racer) Race(ctx context.Context, attempts []Attempt) (string, error) {
	return r.RaceWith(ctx, attempts, nil)
}

// ParseFunc turns a response body into a result. An error disqualifies the
// attempt, so a relay answering 200 with an error page cannot win.
type ParseFunc func(body string) (string, error)

// RaceWith is Race with a parse step applied inside each attempt. A nil
// parse accepts the body as is.
func (r *Racer) RaceWith(ctx context.Context, attempts []Attempt, parse ParseFunc) (string, error) {
	if len(attempts) == 0 {
		return "", &AllAttemptsFailedError{}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		label string
		body  string
		err   *AttemptError
	}
	results := make(chan outcome, len(attempts))
	for _, a := range attempts {
		go func(a Attempt) {
			body, err := r.try(ctx, a)
			if err == nil && parse != nil {
				if parsed, parseErr := parse(body); parseErr != nil {
					err = &AttemptError{Label: a.Label, URL: a.URL, Err: parseErr}
				} else {
					body = parsed
				}
			}
			results <- outcome{label: a.Label, body: body, err: err}
		}(a)
	}

	var failed []*AttemptError
	for range attempts {
		o := <-results
		if o.err == nil {
			r.Log.Debug().Str("winner", o.label).Int("failed", len(failed)).Msg("race won")
			return o.body, nil
		}
		r.Log.Debug().Err(o.err.Err).Str("attempt", o.label).Msg("race attempt failed")
		failed = append(failed, o.err)
	}
	return "", &AllAttemptsFailedError{Attempts: failed}
}

func (r *Racer) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultAttemptTimeout
}

func (r *Racer) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

// try runs a single attempt under its own deadline.
func (r *Racer) try(ctx context.Context, a Attempt) (string, *AttemptError) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	body, err := r.get(attemptCtx, a)
	if err == nil {
		return body, nil
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", ErrAttemptTimeout, r.timeout())
	}
	return "", &AttemptError{Label: a.Label, URL: a.URL, Err: err}
}

func (r *Racer) get(ctx context.Context, a Attempt) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	var resp *http.Response
	if a.Retries > 0 {
		resp, err = DoWithRetry(ctx, r.client(), req, a.Retries, r.Log)
	} else {
		resp, err = r.client().Do(req)
	}
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	if a.Encoding == types.EncodingJSON {
		return decodeEnvelope(data)
	}
	return string(data), nil
}

// relayEnvelope is the JSON wrapper returned by allorigins-style relays.
type relayEnvelope struct {
	Contents *string `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

func decodeEnvelope(data []byte) (string, error) {
	var env relayEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("decoding relay envelope: %w", err)
	}
	if code := env.Status.HTTPCode; code != 0 && (code < 200 || code >= 300) {
		return "", fmt.Errorf("relayed HTTP %d", code)
	}
	if env.Contents == nil {
		return "", errors.New("relay envelope has no contents")
	}
	return *env.Contents, nil
}
