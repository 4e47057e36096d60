// Package bootstrap replaces the site's homepage with the extension UI.
//
// Decide is pure: URL plus the i-wanna-go-back cookie in, an Action out.
// Bootstrap.Run is the shell that applies it to a Page. The HTTP page
// handler is one such Page; tests use an in-memory one.
package bootstrap
