package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults applied on zero value", PageRequest{}, PageRequest{Page: 0, Size: DefaultPageSize}},
		{"negative page clamped", PageRequest{Page: -3, Size: 10}, PageRequest{Page: 0, Size: 10}},
		{"oversized page clamped", PageRequest{Page: 2, Size: 5000}, PageRequest{Page: 2, Size: MaxPageSize}},
		{"valid request unchanged", PageRequest{Page: 4, Size: 50}, PageRequest{Page: 4, Size: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	p := PageRequest{Page: 3, Size: 25}

	assert.Equal(t, 75, p.Offset())
	assert.Equal(t, 25, p.Limit())
}
