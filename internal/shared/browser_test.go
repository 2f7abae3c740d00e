package shared

import "testing"

func TestBrowserCommand(t *testing.T) {
	const url = "https://accounts.spotify.com/authorize?state=abc"

	tc := []struct {
		goos string
		want string
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := browserCommand(tt.goos, url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.want {
				t.Errorf("expected %s, got %s", tt.want, name)
			}
			if args[len(args)-1] != url {
				t.Errorf("expected url as last argument, got %v", args)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		if _, _, err := browserCommand("plan9", url); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("OpenBrowser unsupported runtime", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		if err := OpenBrowser(url); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
