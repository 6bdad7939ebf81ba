package model

import (
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// TaskTable is the table tasks are stored in.
const TaskTable = "task"

// Task record fields.
const (
	TaskTitle    = "title"
	TaskDone     = "done"
	TaskOwner    = "owner"
	TaskPriority = "priority"
	TaskLabels   = "labels"
)

// Task is a unit of work, optionally owned by a User. Empty Labels read
// back from storage as nil.
type Task struct {
	ID       types.Thing `json:"id"`
	Title    string      `json:"title"`
	Done     bool        `json:"done"`
	Owner    types.Thing `json:"owner"`
	Priority int64       `json:"priority"`
	Labels   []string    `json:"labels,omitempty"`
}

// taskContent is the stored shape of a Task.
type taskContent struct {
	Title    string   `codec:"title"`
	Done     bool     `codec:"done"`
	Owner    string   `codec:"owner,omitempty"`
	Priority int64    `codec:"priority"`
	Labels   []string `codec:"labels,omitempty"`
}

// TableName implements types.Creatable.
func (t *Task) TableName() string { return TaskTable }

// ToThing implements types.Creatable. Title is required; Owner must be a
// user.
func (t *Task) ToThing() (types.Object, error) {
	if t.Title == "" {
		return nil, types.NewPropertyNotFoundError(TaskTitle)
	}
	if !t.Owner.IsZero() && t.Owner.Table != UserTable {
		return nil, types.NewValueNotOfTypeError(UserTable)
	}

	o, err := types.ObjectFrom(taskContent{
		Title:    t.Title,
		Done:     t.Done,
		Owner:    t.Owner.String(),
		Priority: t.Priority,
		Labels:   t.Labels,
	})
	if err != nil {
		return nil, err
	}
	if !t.ID.IsZero() {
		o.SetThing(t.ID)
	}
	return o, nil
}

// FromThing implements types.Creatable.
func (t *Task) FromThing(o types.Object) error {
	id, err := o.Thing()
	if err != nil {
		return err
	}
	if _, err := o.GetString(TaskTitle); err != nil {
		return err
	}

	var c taskContent
	if err := o.Decode(&c); err != nil {
		return types.NewValueNotOfTypeError(TaskTable)
	}
	var owner types.Thing
	if c.Owner != "" {
		if owner, err = types.ParseThing(c.Owner); err != nil {
			return err
		}
	}

	*t = Task{
		ID:       id,
		Title:    c.Title,
		Done:     c.Done,
		Owner:    owner,
		Priority: c.Priority,
		Labels:   c.Labels,
	}
	return nil
}

// TaskPatch changes some fields of a Task. Nil fields are left alone.
type TaskPatch struct {
	ID       types.Thing `json:"id"`
	Title    *string     `json:"title,omitempty"`
	Done     *bool       `json:"done,omitempty"`
	Priority *int64      `json:"priority,omitempty"`
}

// ToPatch implements types.Patchable.
func (p *TaskPatch) ToPatch() (types.Object, error) {
	o := types.Object{}
	if p.Title != nil {
		if *p.Title == "" {
			return nil, types.NewPropertyNotFoundError(TaskTitle)
		}
		o[TaskTitle] = *p.Title
	}
	if p.Done != nil {
		o[TaskDone] = *p.Done
	}
	if p.Priority != nil {
		o[TaskPriority] = *p.Priority
	}
	return o, nil
}

// FromPatch implements types.Patchable.
func (p *TaskPatch) FromPatch(o types.Object) error {
	id, err := o.Thing()
	if err != nil {
		return err
	}
	title, err := o.OptString(TaskTitle)
	if err != nil {
		return err
	}
	out := TaskPatch{ID: id}
	if o.Has(TaskTitle) {
		out.Title = &title
	}
	if o.Has(TaskDone) {
		done, err := o.GetBool(TaskDone)
		if err != nil {
			return err
		}
		out.Done = &done
	}
	if o.Has(TaskPriority) {
		prio, err := o.GetInt64(TaskPriority)
		if err != nil {
			return err
		}
		out.Priority = &prio
	}
	*p = out
	return nil
}
