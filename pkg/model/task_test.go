package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

func TestTaskRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		task Task
	}{
		{"title only", Task{Title: "write docs"}},
		{"all fields", Task{
			Title:    "ship",
			Done:     true,
			Owner:    types.NewThing(UserTable, "alice"),
			Priority: 3,
			Labels:   []string{"release"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.task.ToThing()
			require.NoError(t, err)

			id := types.NewThing(TaskTable, "t1")
			var got Task
			require.NoError(t, got.FromThing(roundTrip(t, rec, id)))

			want := tt.task
			want.ID = id
			assert.Equal(t, want, got)
		})
	}
}

func TestTaskRoundTrip_EmptyLabels(t *testing.T) {
	rec, err := (&Task{Title: "a", Labels: []string{}}).ToThing()
	require.NoError(t, err)
	assert.NotContains(t, rec, TaskLabels)

	var got Task
	require.NoError(t, got.FromThing(roundTrip(t, rec, types.NewThing(TaskTable, "t1"))))
	assert.Nil(t, got.Labels)
}

func TestTaskToThing_Shape(t *testing.T) {
	rec, err := (&Task{Title: "a", Owner: types.NewThing(UserTable, "u1")}).ToThing()
	require.NoError(t, err)
	assert.Equal(t, types.Object{
		"title":    "a",
		"done":     false,
		"owner":    "user:u1",
		"priority": int64(0),
	}, rec)
}

func TestTaskToThing_Validation(t *testing.T) {
	_, err := (&Task{}).ToThing()
	assert.True(t, types.IsPropertyNotFound(err))

	_, err = (&Task{Title: "a", Owner: types.NewThing(TaskTable, "x")}).ToThing()
	assert.True(t, types.IsValueNotOfType(err))
}

func TestTaskFromThing_Errors(t *testing.T) {
	var task Task
	err := task.FromThing(types.Object{"id": "task:1"})
	assert.True(t, types.IsPropertyNotFound(err))

	err = task.FromThing(types.Object{"id": "task:1", "title": "a", "done": "yes"})
	assert.True(t, types.IsValueNotOfType(err))

	err = task.FromThing(types.Object{"id": "task:1", "title": "a", "owner": "nobody"})
	assert.True(t, types.IsValueNotOfType(err))
}

func TestTaskPatch(t *testing.T) {
	done := true
	p := TaskPatch{Done: &done}

	rec, err := p.ToPatch()
	require.NoError(t, err)
	assert.Equal(t, types.Object{"done": true}, rec)

	ack := rec.Clone()
	ack.SetThing(types.NewThing(TaskTable, "t1"))
	var got TaskPatch
	require.NoError(t, got.FromPatch(ack))
	assert.Equal(t, TaskPatch{ID: types.NewThing(TaskTable, "t1"), Done: &done}, got)
}
