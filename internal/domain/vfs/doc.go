// Package vfs provides the in-memory virtual filesystem behind the shell.
//
// The tree is a hierarchy of directory and file nodes owned by a single Tree.
// Every node except the root has exactly one parent; the parent link is a
// non-owning back-reference used for ".." resolution and detachment.
//
// Operations:
//   - Resolve: turn a path string plus a cursor node into a node
//   - CreateChild / MkdirAll: add directories and files
//   - Remove: detach a node (recursively for directories)
//   - List / Read / Write / Stat / Chmod / Walk
//
// Concurrency:
//   - A single RWMutex guards the whole tree
//   - Readers never observe a half-applied mutation
//   - Mutations against a node detached by a concurrent Remove fail with ErrNotFound
//
// Example Usage:
//
//	tree := vfs.NewTree()
//	dir, err := tree.CreateChild(tree.Root(), "docs", vfs.KindDir)
//	res, err := tree.Resolve(tree.Root(), "/docs/../docs")
//	entries, err := tree.List(res.Node)
package vfs
