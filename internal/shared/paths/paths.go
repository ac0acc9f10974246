package paths

import (
	"path"
	"strings"
)

// Top-level directories of the standard layout
const (
	Root = "/"
	Home = "/home"
	Tmp  = "/tmp"
	Etc  = "/etc"
	Var  = "/var"
	Log  = "/var/log"
)

// User subdirectories, relative to the user's home
const (
	Documents = "documents"
	Downloads = "downloads"
	Projects  = "projects"
)

// UserHome returns the home directory of user, or Root when user is empty
// or not a single path component.
func UserHome(user string) string {
	if user == "" || user == "." || user == ".." || strings.Contains(user, "/") {
		return Root
	}
	return path.Join(Home, user)
}

// StandardDirectories lists the directories of the default layout in
// creation order. User directories are only included for a usable user name.
func StandardDirectories(user string) []string {
	dirs := []string{Home, Tmp, Etc, Var, Log}

	home := UserHome(user)
	if home == Root {
		return dirs
	}
	return append(dirs,
		home,
		path.Join(home, Documents),
		path.Join(home, Downloads),
		path.Join(home, Projects),
	)
}
