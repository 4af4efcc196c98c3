package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	mu        sync.Mutex
	attempts  map[string]int
	successes map[string]int
	failures  map[string]int
	stale     map[string]int
	durations map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		attempts:  map[string]int{},
		successes: map[string]int{},
		failures:  map[string]int{},
		stale:     map[string]int{},
		durations: map[string]int{},
	}
}

func (r *recordingObserver) ObserveRetryAttempt(op string) {
	r.mu.Lock()
	r.attempts[op]++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveRetrySuccess(op string) {
	r.mu.Lock()
	r.successes[op]++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveRetryFailure(op string) {
	r.mu.Lock()
	r.failures[op]++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveRetryDuration(op string, _ float64) {
	r.mu.Lock()
	r.durations[op]++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveStaleError(op string) {
	r.mu.Lock()
	r.stale[op]++
	r.mu.Unlock()
}

// noSleep disables backoff delays for the duration of a test.
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func withObserver(t *testing.T) *recordingObserver {
	t.Helper()
	obs := newRecordingObserver()
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(nil) })
	return obs
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "open", Path: "x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromStaleHandle(t *testing.T) {
	slept := noSleep(t)
	obs := withObserver(t)

	calls := 0
	got, err := withRetry("open", "x", DefaultRetryConfig(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}
	if len(*slept) != len(want) || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Errorf("backoff = %v, want %v", *slept, want)
	}
	if obs.successes["open"] != 1 || obs.stale["open"] != 2 || obs.attempts["open"] != 2 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	slept := noSleep(t)
	obs := withObserver(t)

	config := RetryConfig{MaxRetries: 4, InitialBackoff: 100 * time.Millisecond, MaxBackoff: 250 * time.Millisecond}
	calls := 0
	_, err := withRetry("stat", "x", config, func() (struct{}, error) {
		calls++
		return struct{}{}, syscall.ESTALE
	})

	if !errors.Is(err, syscall.ESTALE) {
		t.Fatalf("err = %v, want ESTALE", err)
	}
	if calls != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("slept %v, want %v", *slept, want)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, (*slept)[i], want[i])
		}
	}
	if obs.failures["stat"] != 1 {
		t.Errorf("failures = %d, want 1", obs.failures["stat"])
	}
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	slept := noSleep(t)

	calls := 0
	_, err := withRetry("open", "x", DefaultRetryConfig(), func() (int, error) {
		calls++
		return 0, os.ErrPermission
	})

	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("err = %v, want ErrPermission", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("should not sleep, slept %v", *slept)
	}
}

func TestStatAndOpenWithRetry(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "a.jpg")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("size = %d, want 4", info.Size())
	}

	f, err := OpenWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	f.Close()

	if _, err := StatWithRetry(filepath.Join(tmpDir, "missing.jpg"), DefaultRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v, want not-exist", err)
	}
}
