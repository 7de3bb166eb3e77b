/*
Package session remembers the sequence expression last used in a directory.

Commands that take an expression may omit it; the Manager then resolves the
remembered one. Stored defaults are advisory and never read by the engine
itself, so hosts decide when to resolve and when to remember.
*/
package session
