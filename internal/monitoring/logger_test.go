package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("hello %d", 1)
	if got != "hello %d" {
		t.Errorf("custom logger got %q, want %q", got, "hello %d")
	}

	// nil installs a no-op logger rather than a nil func.
	SetLogger(nil)
	Logf("must not panic")
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf is nil by default")
	}
}
