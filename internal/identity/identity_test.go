package identity

import "testing"

func TestResolveBinaryName(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{nil, CLIName},
		{[]string{""}, CLIName},
		{[]string{"/usr/local/bin/peakydash"}, "peakydash"},
		{[]string{"dash.exe"}, "dash"},
	}
	for _, tc := range cases {
		if got := ResolveBinaryName(tc.args); got != tc.want {
			t.Fatalf("ResolveBinaryName(%#v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}
