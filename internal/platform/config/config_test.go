package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "b1", want: []string{"b1"}},
		{name: "plain list", input: "b1,b2", want: []string{"b1", "b2"}},
		{name: "spaces around segments", input: "b1, b2 ,b3", want: []string{"b1", "b2", "b3"}},
		{name: "trailing comma", input: "b1,b2,", want: []string{"b1", "b2"}},
		{name: "blank segments", input: " , ,b1", want: []string{"b1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCSV(tt.input))
		})
	}
}
