// Package paths defines the standard directory layout of a fresh virtual
// filesystem.
//
// # Directory Structure
//
//	/home/
//	  └── <user>/
//	      ├── documents/
//	      ├── downloads/
//	      └── projects/
//	/tmp/
//	/etc/
//	/var/
//	  └── log/
//
// # Usage
//
//	for _, dir := range paths.StandardDirectories("alice") {
//	    tree.MkdirAll(tree.Root(), dir)
//	}
//	home := paths.UserHome("alice") // /home/alice
package paths
