// Package editor enumerates the supported terminal text editors and launches
// them on a file with the terminal attached.
package editor
