package model

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/mesh-intelligence/thingstore/pkg/types"
)

// UserTable is the table users are stored in.
const UserTable = "user"

// User record fields.
const (
	UserName      = "name"
	UserEmail     = "email"
	UserAge       = "age"
	UserTags      = "tags"
	UserCreatedAt = "created_at"
)

// User is a person known to the application.
//
// Storage normalizes two fields: empty Tags read back as nil, and CreatedAt
// reads back in UTC (the same instant, so CreatedAt.Equal holds).
type User struct {
	ID        types.Thing `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Age       int64       `json:"age,omitempty"`
	Tags      []string    `json:"tags,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName implements types.Creatable.
func (u *User) TableName() string { return UserTable }

// ToThing implements types.Creatable. Name is required; Email, when set,
// must be a valid address.
func (u *User) ToThing() (types.Object, error) {
	if u.Name == "" {
		return nil, types.NewPropertyNotFoundError(UserName)
	}
	if u.Email != "" && !strfmt.Default.Validates("email", u.Email) {
		return nil, types.NewValueNotOfTypeError(UserEmail)
	}

	o := types.Object{UserName: u.Name}
	if !u.ID.IsZero() {
		o.SetThing(u.ID)
	}
	if u.Email != "" {
		o[UserEmail] = u.Email
	}
	if u.Age != 0 {
		o[UserAge] = u.Age
	}
	if len(u.Tags) > 0 {
		o[UserTags] = u.Tags
	}
	if !u.CreatedAt.IsZero() {
		o[UserCreatedAt] = u.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return o, nil
}

// FromThing implements types.Creatable.
func (u *User) FromThing(o types.Object) error {
	id, err := o.Thing()
	if err != nil {
		return err
	}
	name, err := o.GetString(UserName)
	if err != nil {
		return err
	}
	email, err := o.OptString(UserEmail)
	if err != nil {
		return err
	}
	age, err := o.OptInt64(UserAge)
	if err != nil {
		return err
	}
	tags, err := o.OptStrings(UserTags)
	if err != nil {
		return err
	}
	var created time.Time
	if o.Has(UserCreatedAt) {
		if created, err = o.GetTime(UserCreatedAt); err != nil {
			return err
		}
	}

	*u = User{ID: id, Name: name, Email: email, Age: age, Tags: tags, CreatedAt: created}
	return nil
}

// UserPatch changes some fields of a User. Nil fields are left alone.
// After a patch, ID and the patched fields are filled from the store.
type UserPatch struct {
	ID    types.Thing `json:"id"`
	Name  *string     `json:"name,omitempty"`
	Email *string     `json:"email,omitempty"`
	Age   *int64      `json:"age,omitempty"`
	Tags  *[]string   `json:"tags,omitempty"`
}

// ToPatch implements types.Patchable.
func (p *UserPatch) ToPatch() (types.Object, error) {
	o := types.Object{}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, types.NewPropertyNotFoundError(UserName)
		}
		o[UserName] = *p.Name
	}
	if p.Email != nil {
		if *p.Email != "" && !strfmt.Default.Validates("email", *p.Email) {
			return nil, types.NewValueNotOfTypeError(UserEmail)
		}
		o[UserEmail] = *p.Email
	}
	if p.Age != nil {
		o[UserAge] = *p.Age
	}
	if p.Tags != nil {
		o[UserTags] = *p.Tags
	}
	return o, nil
}

// FromPatch implements types.Patchable.
func (p *UserPatch) FromPatch(o types.Object) error {
	id, err := o.Thing()
	if err != nil {
		return err
	}
	out := UserPatch{ID: id}
	if o.Has(UserName) {
		name, err := o.GetString(UserName)
		if err != nil {
			return err
		}
		out.Name = &name
	}
	if o.Has(UserEmail) {
		email, err := o.GetString(UserEmail)
		if err != nil {
			return err
		}
		out.Email = &email
	}
	if o.Has(UserAge) {
		age, err := o.GetInt64(UserAge)
		if err != nil {
			return err
		}
		out.Age = &age
	}
	if o.Has(UserTags) {
		tags, err := o.GetStrings(UserTags)
		if err != nil {
			return err
		}
		out.Tags = &tags
	}
	*p = out
	return nil
}
