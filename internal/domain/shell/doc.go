// Package shell turns command lines into operations on a shared virtual
// filesystem.
//
// A line goes through variable expansion, POSIX-style splitting and a closed
// table of builtin commands. Every failure is returned as a value inside
// Result; nothing a user types can stop the process.
//
// Features:
//   - $NAME and ${NAME} expansion with HOME/USERPROFILE and USER/USERNAME fallbacks
//   - Single quotes, double quotes and backslash escapes
//   - Builtins: ls, cd, pwd, mkdir, touch, write, cat, rm, rmdir, tree, find,
//     stat, chmod, echo, help, exit
//   - Classified errors (ErrorKind) for callers that render or count them
//   - Many independent sessions over one tree through Manager
//
// Example Usage:
//
//	tree := vfs.NewTree()
//	sess := shell.NewSession("local", tree, shell.Options{Env: shell.OSEnv})
//
//	res := sess.Execute(`mkdir -p docs/notes`)
//	res = sess.Execute(`cd docs`)
//	res = sess.Execute(`ls "$HOME"`)
//	if res.Err != nil {
//	    fmt.Println(res.Kind, res.Err)
//	}
//
//	mgr := shell.NewManager(tree, shell.Options{})
//	info := mgr.Create()
//	res, err := mgr.Execute(info.ID, "pwd")
package shell
