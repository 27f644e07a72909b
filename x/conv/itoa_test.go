package conv

import "testing"

func TestItoa(t *testing.T) {
	for _, c := range []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{21, "21"},
		{-5, "-5"},
		{-40, "-40"},
		{9223372036854775807, "9223372036854775807"},
	} {
		var buf [20]byte
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestItoaEmptyBuffer(t *testing.T) {
	if got := Itoa(nil, 12); len(got) != 0 {
		t.Fatalf("Itoa(nil) = %q, want empty", got)
	}
}

func TestAppendInt(t *testing.T) {
	got := string(append(AppendInt([]byte("t="), -3), " C"...))
	if got != "t=-3 C" {
		t.Fatalf("AppendInt = %q", got)
	}
}
