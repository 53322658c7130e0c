package ui

import "testing"

func TestGroupDigits(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-12, "-12"},
	}
	for _, tc := range cases {
		if got := groupDigits(tc.in); got != tc.want {
			t.Fatalf("groupDigits(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
