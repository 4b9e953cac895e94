package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(string(kind))
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("starship")
	assert.Error(t, err)
}

func TestCollectionNames(t *testing.T) {
	assert.Equal(t, "movies", KindMovie.Collection())
	assert.Equal(t, "theaters", KindTheater.Collection())
	assert.Equal(t, "transactions", KindTransaction.Collection())
}

func TestEntityID(t *testing.T) {
	assert.Equal(t, "", Entity{}.ID())
	assert.Equal(t, "", Entity{IDField: 42}.ID())
	assert.Equal(t, "573a1390f29313caabcd4135", Entity{IDField: "573a1390f29313caabcd4135"}.ID())
}

func TestPageRequestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"absent limit gets default", PageRequest{}, PageRequest{Offset: 0, Limit: 20}},
		{"negative offset reset", PageRequest{Offset: -5, Limit: 10}, PageRequest{Offset: 0, Limit: 10}},
		{"limit above max capped", PageRequest{Limit: 500}, PageRequest{Limit: 100}},
		{"limit at max kept", PageRequest{Limit: 100}, PageRequest{Limit: 100}},
		{"in-range request untouched", PageRequest{Offset: 40, Limit: 25}, PageRequest{Offset: 40, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp(20, 100))
		})
	}
}
