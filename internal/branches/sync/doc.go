// Package sync brings a repository folder onto a local branch that tracks a
// remote branch.
//
// A missing folder is cloned first. An existing folder is fetched. Both then
// create the tracking branch, and when git reports that the branch already
// exists the service switches to it and pulls instead.
package sync
