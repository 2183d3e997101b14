package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		name  string
		items []ProgressInput
		want  int
	}{
		{name: "empty list", items: nil, want: 0},
		{name: "zero quantities", items: []ProgressInput{{Quantity: 0, Reserved: 0}}, want: 0},
		{name: "half reserved", items: []ProgressInput{{Quantity: 4, Reserved: 2}}, want: 50},
		{
			name: "rounded across items",
			items: []ProgressInput{
				{Quantity: 3, Reserved: 1},
				{Quantity: 1, Reserved: 1},
			},
			want: 50,
		},
		{name: "complete", items: []ProgressInput{{Quantity: 2, Reserved: 2}}, want: 100},
		{
			name:  "over-reserved exceeds hundred",
			items: []ProgressInput{{Quantity: 2, Reserved: 3}},
			want:  150,
		},
		{
			name: "rounds up",
			items: []ProgressInput{
				{Quantity: 3, Reserved: 2},
			},
			want: 67,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Progress(tc.items))
		})
	}
}
