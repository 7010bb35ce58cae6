// Package container provides the dependency resolution collaborator used when
// a listener is referenced by class id instead of by function.
//
// # Basic Usage
//
// Bind values under string ids and resolve them later:
//
//	c := container.New()
//	container.Singleton(c, "mail.welcome", func() (*WelcomeMailer, error) {
//	    return NewWelcomeMailer(smtp), nil
//	})
//
//	v, err := c.Get("mail.welcome")
//
// # Binding Kinds
//
//   - Singleton: created on first Get, then reused
//   - Factory: created on every Get
//   - Instance: an existing value
//
// TypeOf reports the bound type without creating anything, which lets the
// event dispatcher validate "Class::Method" references at registration time
// while still instantiating listeners lazily.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Singleton factories run at most
// once per id.
package container
