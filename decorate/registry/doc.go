// Package registry maps names to decorator factories so decorators can be
// referenced by string instead of direct reference.
//
// A Registry is an explicit instance with a documented lifecycle: populate it
// at startup (Builtin returns one preloaded with the standard factories),
// read it thereafter. Registering an already-taken name overwrites the
// previous factory, last write wins.
//
//	reg, err := registry.Builtin(logger, collector)
//	if err != nil {
//		// handle error
//	}
//
//	notify, err := reg.Decorate(sendNotification, "debounce", 300*time.Millisecond)
package registry
