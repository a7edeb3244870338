// Package prompt asks the interactive questions of the setup flow over plain
// readers and writers.
package prompt
