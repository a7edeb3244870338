// Package envfiles seeds a project's .env file from its .env.example template
// and hands the file to a terminal editor.
//
// Seeding never overwrites an existing .env. Missing project directories,
// missing editors and editors that exit with an error are reported as
// notices and do not stop the setup.
package envfiles
