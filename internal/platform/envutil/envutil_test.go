package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "unset", raw: "", want: time.Minute},
		{name: "go duration", raw: "90s", want: 90 * time.Second},
		{name: "bare seconds", raw: "30", want: 30 * time.Second},
		{name: "garbage", raw: "soon", want: time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LP_TEST_DURATION", tc.raw)
			if got := Duration("LP_TEST_DURATION", time.Minute); got != tc.want {
				t.Fatalf("want=%v got=%v", tc.want, got)
			}
		})
	}
}

func TestFirstPrefersEarlierNames(t *testing.T) {
	t.Setenv("LP_TEST_A", "")
	t.Setenv("LP_TEST_B", "b")
	t.Setenv("LP_TEST_C", "c")
	if got := First("LP_TEST_A", "LP_TEST_B", "LP_TEST_C"); got != "b" {
		t.Fatalf("want=b got=%q", got)
	}
}

func TestBoolAndInt(t *testing.T) {
	t.Setenv("LP_TEST_BOOL", "off")
	if Bool("LP_TEST_BOOL", true) {
		t.Fatalf("want false")
	}
	t.Setenv("LP_TEST_INT", "x")
	if got := Int("LP_TEST_INT", 7); got != 7 {
		t.Fatalf("want=7 got=%d", got)
	}
}
