package device

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLastInt(t *testing.T) {
	tests := []struct {
		out  string
		want int
		ok   bool
	}{
		{"42\r\n", 42, true},
		{"WARNING: something\n 7 \n", 7, true},
		{"10 20 abc", 20, true},
		{"", 0, false},
		{"no numbers here", 0, false},
	}
	for _, tt := range tests {
		got, ok := lastInt(tt.out)
		if got != tt.want || ok != tt.ok {
			t.Errorf("lastInt(%q) = %d, %v; want %d, %v", tt.out, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPowerShellGet(t *testing.T) {
	ps := NewPowerShell(time.Second)
	ps.run = func(ctx context.Context, script string) (string, error) {
		if script != psGetBrightness {
			t.Fatalf("unexpected script %q", script)
		}
		return "130\r\n", nil
	}

	got, err := ps.Get(context.Background(), Display{})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 100 {
		t.Fatalf("Get = %d, want value clamped to 100", got)
	}
}

func TestPowerShellGetNoValue(t *testing.T) {
	ps := NewPowerShell(time.Second)
	ps.run = func(context.Context, string) (string, error) { return "\r\n", nil }

	if _, err := ps.Get(context.Background(), Display{}); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Get err = %v, want ErrBackendUnavailable", err)
	}
}

func TestPowerShellSet(t *testing.T) {
	var script string
	ps := NewPowerShell(time.Second)
	ps.run = func(_ context.Context, s string) (string, error) {
		script = s
		return "", nil
	}

	r, err := ps.Set(context.Background(), Display{}, -5)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !r.Known || r.Value != 0 {
		t.Fatalf("Set reading = %+v, want {0 true}", r)
	}
	if want := "$v=0; "; script[:len(want)] != want {
		t.Fatalf("script = %q, want prefix %q", script, want)
	}
}

func TestPowerShellSetRejected(t *testing.T) {
	ps := NewPowerShell(time.Second)
	ps.run = func(context.Context, string) (string, error) { return "", errors.New("exit status 1") }

	if _, err := ps.Set(context.Background(), Display{}, 50); !errors.Is(err, ErrDeviceRejected) {
		t.Fatalf("Set err = %v, want ErrDeviceRejected", err)
	}
}

func TestPowerShellTimeout(t *testing.T) {
	ps := NewPowerShell(20 * time.Millisecond)
	ps.run = func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	start := time.Now()
	_, err := ps.Get(context.Background(), Display{})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Get err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Get took %s, timeout not enforced", elapsed)
	}

	if _, err := ps.Set(context.Background(), Display{}, 10); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Set err = %v, want ErrTimeout", err)
	}
}

func TestPowerShellTargetsIgnorePreferred(t *testing.T) {
	ps := NewPowerShell(0)
	got, err := ps.Targets(context.Background(), []Display{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if len(got) != 1 || got[0].ID != "primary" {
		t.Fatalf("Targets = %+v, want single primary panel", got)
	}
}

func TestClampBounds(t *testing.T) {
	for in, want := range map[int]int{-10: 0, 0: 0, 55: 55, 100: 100, 250: 100} {
		if got := Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}
