package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestRealClock_Ticker(t *testing.T) {
	clock := RealClock{}
	ticker := clock.NewTicker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("ticker did not fire")
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, expected %v", got, start)
	}

	clock.Advance(time.Minute)
	want := start.Add(time.Minute)
	if got := clock.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, expected %v", got, want)
	}
	if got := clock.Since(start); got != time.Minute {
		t.Errorf("Since(start) = %v, expected %v", got, time.Minute)
	}
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	target := time.Unix(1000, 0)
	clock.Set(target)

	if got := clock.Now(); !got.Equal(target) {
		t.Errorf("Now() = %v, expected %v", got, target)
	}
}

func TestMockClock_SleepRecords(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	clock.Sleep(2 * time.Second)
	clock.Sleep(time.Second)

	sleeps := clock.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 2*time.Second || sleeps[1] != time.Second {
		t.Errorf("Sleeps() = %v, expected [2s 1s]", sleeps)
	}
}

func TestMockTicker_FiresOnAdvance(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	ticker := clock.NewTicker(10 * time.Millisecond)

	select {
	case <-ticker.C():
		t.Fatal("ticker fired before interval elapsed")
	default:
	}

	clock.Advance(10 * time.Millisecond)
	select {
	case <-ticker.C():
	default:
		t.Fatal("ticker did not fire after interval elapsed")
	}
}

func TestMockTicker_StoppedDoesNotFire(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	ticker := clock.NewTicker(time.Millisecond)
	ticker.Stop()

	clock.Advance(time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestMockTicker_Trigger(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	ticker := clock.NewTicker(time.Hour).(*MockTicker)

	now := time.Unix(100, 0)
	ticker.Trigger(now)
	select {
	case got := <-ticker.C():
		if !got.Equal(now) {
			t.Errorf("tick = %v, expected %v", got, now)
		}
	default:
		t.Fatal("Trigger did not deliver a tick")
	}
}
