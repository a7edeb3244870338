// Package bootstrap runs the development environment setup end to end.
//
// It resolves the branch, synchronizes every configured repository onto that
// branch, resolves the editor, prepares each repository's .env file and
// finishes with a reminder.
package bootstrap
