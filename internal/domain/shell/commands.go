package shell

// Command identifies one builtin.
type Command int

const (
	cmdNone Command = iota
	CmdLs
	CmdCd
	CmdPwd
	CmdMkdir
	CmdTouch
	CmdWrite
	CmdCat
	CmdRm
	CmdRmdir
	CmdTree
	CmdFind
	CmdStat
	CmdChmod
	CmdEcho
	CmdHelp
	CmdExit
)

type commandInfo struct {
	name    string
	usage   string
	summary string
}

// commandInfos is indexed by Command and also fixes the help order.
var commandInfos = [...]commandInfo{
	cmdNone:  {},
	CmdLs:    {"ls", "ls [path]", "list directory contents"},
	CmdCd:    {"cd", "cd [path]", "change the current directory"},
	CmdPwd:   {"pwd", "pwd", "print the current directory"},
	CmdMkdir: {"mkdir", "mkdir [-p] <path>...", "create directories"},
	CmdTouch: {"touch", "touch <path>...", "create empty files or refresh their time"},
	CmdWrite: {"write", "write <path> [text...]", "replace a file's content"},
	CmdCat:   {"cat", "cat <path>...", "print file contents"},
	CmdRm:    {"rm", "rm [-r] <path>...", "remove files or directories"},
	CmdRmdir: {"rmdir", "rmdir <path>...", "remove empty directories"},
	CmdTree:  {"tree", "tree [path]", "show a directory recursively"},
	CmdFind:  {"find", "find [path] <pattern>", "search paths with a glob pattern"},
	CmdStat:  {"stat", "stat <path>", "describe a file or directory"},
	CmdChmod: {"chmod", "chmod <octal> <path>", "change permission bits"},
	CmdEcho:  {"echo", "echo [args...]", "print arguments"},
	CmdHelp:  {"help", "help", "list commands"},
	CmdExit:  {"exit", "exit", "leave the shell"},
}

var builtIns = func() map[string]Command {
	m := make(map[string]Command, len(commandInfos))
	for c := CmdLs; int(c) < len(commandInfos); c++ {
		m[commandInfos[c].name] = c
	}
	return m
}()

// LookupCommand finds the builtin named name.
func LookupCommand(name string) (Command, bool) {
	c, ok := builtIns[name]
	return c, ok
}

// String returns the command name
func (c Command) String() string {
	if c <= cmdNone || int(c) >= len(commandInfos) {
		return "unknown"
	}
	return commandInfos[c].name
}

// Usage returns the one-line synopsis of the command.
func (c Command) Usage() string {
	if c <= cmdNone || int(c) >= len(commandInfos) {
		return ""
	}
	return commandInfos[c].usage
}

// Names lists every builtin in help order.
func Names() []string {
	names := make([]string, 0, len(commandInfos)-1)
	for c := CmdLs; int(c) < len(commandInfos); c++ {
		names = append(names, commandInfos[c].name)
	}
	return names
}
