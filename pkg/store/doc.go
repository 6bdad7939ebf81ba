// Package store is the typed CRUD surface over the document datastore.
//
// A Store binds one open datastore to one session (namespace and
// database). It is built once at startup and shared; it holds no mutable
// state and is safe for concurrent use.
//
// Go methods cannot carry type parameters, so the typed operations are
// package-level functions taking the Store first:
//
//	u, err := store.Create(s, model.User{Name: "alice"})
//	u, err = store.Get[model.User](s, u.ID)
//	u, err = store.Update[model.User](s, u.ID, model.UserPatch{Age: &age})
//	err = store.Delete(s, u.ID)
//	users, err := store.List[model.User](s, types.Eq("name", "alice"), nil)
//
// Every error these functions return is a *types.Error. Conversion
// failures surface before the datastore is touched.
package store
