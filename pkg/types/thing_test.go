package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThing(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Thing
		wantErr bool
	}{
		{name: "table and key", in: "user:abc", want: Thing{Table: "user", Key: "abc"}},
		{name: "key keeps later colons", in: "event:2024:01", want: Thing{Table: "event", Key: "2024:01"}},
		{name: "missing separator", in: "user", wantErr: true},
		{name: "empty key", in: "user:", wantErr: true},
		{name: "invalid table", in: "us er:1", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThing(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValueNotOfType(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestThingText(t *testing.T) {
	th := NewThing("task", "01J")
	b, err := th.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "task:01J", string(b))

	var back Thing
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, th, back)

	require.NoError(t, back.UnmarshalText(nil))
	assert.True(t, back.IsZero())
	assert.Equal(t, "", back.String())
}
