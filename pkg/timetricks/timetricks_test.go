package timetricks

import (
	"fmt"
	"testing"
	"time"
)

func ExampleWithinForecast() {
	t := time.Now()
	for i := 0; i < 8; i++ {
		fmt.Println(i, WithinForecast(t.Add(time.Duration(i)*24*time.Hour)))
	}
	// Output:
	// 0 true
	// 1 true
	// 2 true
	// 3 true
	// 4 true
	// 5 true
	// 6 true
	// 7 false
}

func TestDay(t *testing.T) {
	morning := time.Date(2026, time.August, 25, 6, 15, 0, 0, time.UTC)
	evening := time.Date(2026, time.August, 25, 22, 45, 59, 0, time.UTC)
	if Day(morning) != "2026-08-25" {
		t.Errorf("got %q", Day(morning))
	}
	if Day(morning) != Day(evening) {
		t.Errorf("same calendar day should share a key: %q vs %q", Day(morning), Day(evening))
	}
}

func TestMinuteOfDay(t *testing.T) {
	at := time.Date(2026, time.August, 25, 13, 37, 59, 0, time.UTC)
	if got := MinuteOfDay(at); got != 13*60+37 {
		t.Errorf("got %d, want %d", got, 13*60+37)
	}
}
