package handlers

import "testing"

func TestRoundRating(t *testing.T) {
	cases := []struct {
		avg  float64
		want float64
	}{
		{avg: 0, want: 0},
		{avg: 5, want: 5},
		{avg: 4.25, want: 4.3},
		{avg: 4.24, want: 4.2},
		{avg: 11.0 / 3.0, want: 3.7},
		{avg: 13.0 / 3.0, want: 4.3},
	}

	for _, tc := range cases {
		if got := roundRating(tc.avg); got != tc.want {
			t.Fatalf("roundRating(%v) = %v, want %v", tc.avg, got, tc.want)
		}
	}
}
