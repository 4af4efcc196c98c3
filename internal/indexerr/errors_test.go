package indexerr

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "with cause and path",
			err:      Wrap(KindCodec, "calculate_average", "a.jpg", errors.New("unexpected EOF")),
			contains: []string{"[codec:calculate_average]", "a.jpg", "unexpected EOF"},
		},
		{
			name:     "without cause",
			err:      New(KindInvalidPath, "validate_image", "/missing.png"),
			contains: []string{"[invalid_path:validate_image]", "/missing.png"},
		},
		{
			name:     "without path",
			err:      Wrap(KindProcessing, "write_table", "", ErrLengthMismatch),
			contains: []string{"[processing:write_table]", "length mismatch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("error %q does not contain %q", msg, want)
				}
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(KindIO, "open", "x", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrapKeepsExistingKind(t *testing.T) {
	inner := New(KindInvalidPath, "validate_image", "x")
	outer := Wrap(KindIO, "batch_statistics", "x", fmt.Errorf("context: %w", inner))

	if !IsKind(outer, KindInvalidPath) {
		t.Errorf("KindOf = %q, want %q", KindOf(outer), KindInvalidPath)
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	err := Wrap(KindIO, "open", "x", fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find the wrapped cause")
	}

	err = Wrap(KindProcessing, "append_table", "t.csv", ErrLengthMismatch)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Error("errors.Is should find ErrLengthMismatch")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{name: "direct match", err: New(KindCodec, "op", ""), kind: KindCodec, expected: true},
		{name: "different kind", err: New(KindCodec, "op", ""), kind: KindIO, expected: false},
		{name: "wrapped with fmt", err: fmt.Errorf("outer: %w", New(KindSerialization, "read", "")), kind: KindSerialization, expected: true},
		{name: "plain error", err: errors.New("plain"), kind: KindIO, expected: false},
		{name: "nil error", err: nil, kind: KindIO, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err, tt.kind); got != tt.expected {
				t.Errorf("IsKind(%v, %q) = %v, want %v", tt.err, tt.kind, got, tt.expected)
			}
		})
	}
}
