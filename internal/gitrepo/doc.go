// Package gitrepo interprets git remote locations.
//
// ParseRemoteURL turns https and ssh remotes into their host, owner and
// repository parts, and DeriveFolderName picks the clone folder git itself
// would choose for a remote when no folder is configured.
package gitrepo
