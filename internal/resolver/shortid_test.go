package resolver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ids = []string{
	"3f2a9c1e-7b7d-4c1a-9a57-0e5d1b9e2f10",
	"3f2a11aa-0000-4c1a-9a57-0e5d1b9e2f10",
	"a1b2c3d4-1111-2222-3333-444455556666",
	"w1",
}

func TestResolveWidgetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr func(error) bool
	}{
		{name: "exact full id", input: ids[2], want: ids[2]},
		{name: "exact short custom id", input: "w1", want: "w1"},
		{name: "unique prefix", input: "a1b2", want: ids[2]},
		{name: "longer unique prefix", input: "3f2a9c", want: ids[0]},
		{name: "ambiguous prefix", input: "3f2a", wantErr: IsAmbiguousError},
		{name: "no match", input: "ffff", wantErr: IsNotFoundError},
		{name: "too short", input: "a1", wantErr: func(err error) bool { return err != nil }},
		{name: "empty", input: "", wantErr: func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWidgetID(ids, tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error type: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", ShortID(ids[0]))
	assert.Equal(t, "w1", ShortID("w1"))
}

func TestFormatAmbiguousError(t *testing.T) {
	t.Run("lists every match", func(t *testing.T) {
		msg := FormatAmbiguousError(&AmbiguousError{ShortID: "3f2a", Matches: ids[:2]})
		assert.Contains(t, msg, "matches 2 widgets")
		assert.Contains(t, msg, ids[0])
		assert.Contains(t, msg, ids[1])
		assert.NotContains(t, msg, "more")
	})

	t.Run("truncates long lists", func(t *testing.T) {
		matches := make([]string, 13)
		for i := range matches {
			matches[i] = fmt.Sprintf("abcd-%02d", i)
		}
		msg := FormatAmbiguousError(&AmbiguousError{ShortID: "abcd", Matches: matches})
		assert.Contains(t, msg, "abcd-09")
		assert.NotContains(t, msg, "abcd-10")
		assert.Contains(t, msg, "...and 3 more")
	})
}

func TestErrorPredicatesUnwrap(t *testing.T) {
	err := fmt.Errorf("remove: %w", &NotFoundError{ShortID: "x"})
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsAmbiguousError(err))
	assert.False(t, IsNotFoundError(errors.New("other")))
}
