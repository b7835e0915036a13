package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"07911 123456", "+447911123456", true},
		{"+44 7911 123456", "+447911123456", true},
		{"+86 138 0013 8000", "+8613800138000", true},
		{"  ", "", false},
		{"not a number", "not a number", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeE164(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("NormalizeE164(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
