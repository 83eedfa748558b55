package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeDuplicateID, "identifier %q already in use", "web")

	if err.Code != ErrCodeDuplicateID {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDuplicateID)
	}

	if err.Message != `identifier "web" already in use` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `DUPLICATE_ID: identifier "web" already in use`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeExportIO, cause, "write %s", "/out.png")

	if err.Code != ErrCodeExportIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExportIO)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeUnknownReference, "test"),
			code:     ErrCodeUnknownReference,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeUnknownReference, "test"),
			code:     ErrCodeDuplicateID,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeLayoutOverflow, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeLayoutOverflow,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmtWrap(New(ErrCodeExportIO, "inner")),
			code:     ErrCodeExportIO,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeLayoutOverflow, "test"), ErrCodeLayoutOverflow},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "with cause",
			err:      Wrap(ErrCodeExportIO, errors.New("disk full"), "write out.svg"),
			expected: "write out.svg: disk full",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"unknown reference", New(ErrCodeUnknownReference, "x"), ExitInput},
		{"duplicate id", New(ErrCodeDuplicateID, "x"), ExitInput},
		{"overflow", New(ErrCodeLayoutOverflow, "x"), ExitOverflow},
		{"export io", Wrap(ErrCodeExportIO, errors.New("eacces"), "x"), ExitIO},
		{"plain", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func fmtWrap(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "outer: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
