// Package seed loads development fixtures into a Store.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/thingstore/internal/logging"
	"github.com/mesh-intelligence/thingstore/internal/sqlite"
	"github.com/mesh-intelligence/thingstore/pkg/model"
	"github.com/mesh-intelligence/thingstore/pkg/store"
	"github.com/mesh-intelligence/thingstore/pkg/types"
)

//go:embed fixture.yaml
var defaultFixture []byte

var logger = logging.Logger("seed")

// Fixture is the YAML document of seed records. Task owners refer to user
// keys.
type Fixture struct {
	Users []UserSeed `yaml:"users"`
	Tasks []TaskSeed `yaml:"tasks"`
}

// UserSeed is one user of a Fixture.
type UserSeed struct {
	Key   string   `yaml:"key"`
	Name  string   `yaml:"name"`
	Email string   `yaml:"email"`
	Age   int64    `yaml:"age"`
	Tags  []string `yaml:"tags"`
}

// TaskSeed is one task of a Fixture.
type TaskSeed struct {
	Key      string   `yaml:"key"`
	Title    string   `yaml:"title"`
	Owner    string   `yaml:"owner"`
	Priority int64    `yaml:"priority"`
	Done     bool     `yaml:"done"`
	Labels   []string `yaml:"labels"`
}

// Result counts what a seed run did.
type Result struct {
	Created int
	Skipped int
}

// ErrMissingKey reports a fixture entry without a key.
var ErrMissingKey = errors.New("seed entry has no key")

// Default returns the embedded development fixture.
func Default() (Fixture, error) {
	return Parse(defaultFixture)
}

// Parse decodes a YAML fixture. Unknown fields are rejected and every entry
// must have a key.
func Parse(data []byte) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixture{}, types.NewSerdeError(err)
	}
	for _, u := range f.Users {
		if u.Key == "" {
			return Fixture{}, types.NewSerdeError(fmt.Errorf("%w: user %q", ErrMissingKey, u.Name))
		}
	}
	for _, t := range f.Tasks {
		if t.Key == "" {
			return Fixture{}, types.NewSerdeError(fmt.Errorf("%w: task %q", ErrMissingKey, t.Title))
		}
	}
	return f, nil
}

// Run creates the fixture's records through s. Records whose id already
// exists are left alone, so running a fixture twice is harmless.
func Run(s *store.Store, f Fixture) (Result, error) {
	var res Result

	for _, u := range f.Users {
		user := model.User{
			ID:    types.NewThing(model.UserTable, u.Key),
			Name:  u.Name,
			Email: u.Email,
			Age:   u.Age,
			Tags:  u.Tags,
		}
		if err := createOnce(s, &res, user); err != nil {
			return res, err
		}
	}

	for _, t := range f.Tasks {
		task := model.Task{
			ID:       types.NewThing(model.TaskTable, t.Key),
			Title:    t.Title,
			Done:     t.Done,
			Priority: t.Priority,
			Labels:   t.Labels,
		}
		if t.Owner != "" {
			task.Owner = types.NewThing(model.UserTable, t.Owner)
		}
		if err := createOnce(s, &res, task); err != nil {
			return res, err
		}
	}

	logger.Info("seed complete", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func createOnce[T any, PT types.Creatable[T]](s *store.Store, res *Result, t T) error {
	_, err := store.Create[T, PT](s, t)
	switch {
	case err == nil:
		res.Created++
		return nil
	case errors.Is(err, sqlite.ErrRecordExists):
		res.Skipped++
		return nil
	default:
		return err
	}
}
