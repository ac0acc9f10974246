package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
)

// Permission bits checked for the owner class.
const (
	permRead  fs.FileMode = 0o400
	permWrite fs.FileMode = 0o200
	permExec  fs.FileMode = 0o100
)

func (s *Session) dispatch(cmd Command, args []string) Result {
	var (
		out []string
		err error
	)

	switch cmd {
	case CmdLs:
		out, err = s.ls(args)
	case CmdCd:
		err = s.cd(args)
	case CmdPwd:
		out = []string{s.tree.PathOf(s.cwd)}
	case CmdMkdir:
		err = s.mkdir(args)
	case CmdTouch:
		err = s.touch(args)
	case CmdWrite:
		err = s.write(args)
	case CmdCat:
		out, err = s.cat(args)
	case CmdRm:
		err = s.rm(args)
	case CmdRmdir:
		err = s.rmdir(args)
	case CmdTree:
		out, err = s.treeCmd(args)
	case CmdFind:
		out, err = s.find(args)
	case CmdStat:
		out, err = s.stat(args)
	case CmdChmod:
		err = s.chmod(args)
	case CmdEcho:
		out = []string{strings.Join(args, " ")}
	case CmdHelp:
		out = help()
	case CmdExit:
		s.running = false
		return Result{Exited: true}
	default:
		err = fmt.Errorf("unhandled command %d", cmd)
	}
	return Result{Output: out, Err: err}
}

// parseFlags separates single-letter flags from operands. Flags may appear
// anywhere among the arguments and may be combined ("-rf"); "--" ends flag
// parsing and a lone "-" is an operand.
func parseFlags(op string, args []string, allowed string) (map[rune]bool, []string, error) {
	flags := make(map[rune]bool)
	var operands []string
	for i, arg := range args {
		if arg == "--" {
			return flags, append(operands, args[i+1:]...), nil
		}
		if len(arg) < 2 || arg[0] != '-' {
			operands = append(operands, arg)
			continue
		}
		for _, f := range arg[1:] {
			if !strings.ContainsRune(allowed, f) {
				return nil, nil, usagef(op, "invalid option -- '%c'", f)
			}
			flags[f] = true
		}
	}
	return flags, operands, nil
}

func (s *Session) resolve(op, p string) (*vfs.Node, error) {
	res, err := s.tree.Resolve(s.cwd, s.expandHome(p))
	if err != nil {
		return nil, pathErr(op, p, err)
	}
	return res.Node, nil
}

func (s *Session) checkPerm(op, p string, n *vfs.Node, bit fs.FileMode) error {
	info, err := s.tree.Stat(n)
	if err != nil {
		return pathErr(op, p, err)
	}
	if info.Mode&bit == 0 {
		return pathErr(op, p, vfs.ErrPermission)
	}
	return nil
}

func (s *Session) ls(args []string) ([]string, error) {
	if len(args) > 1 {
		return nil, usagef("ls", "too many arguments")
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	dir, err := s.resolve("ls", target)
	if err != nil {
		return nil, err
	}
	if dir.IsDir() {
		if err := s.checkPerm("ls", target, dir, permRead); err != nil {
			return nil, err
		}
	}
	entries, err := s.tree.List(dir)
	if err != nil {
		return nil, pathErr("ls", target, err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s %6d %s", e.Mode, e.Size, e.Name))
	}
	return out, nil
}

func (s *Session) cd(args []string) error {
	if len(args) > 1 {
		return usagef("cd", "too many arguments")
	}
	target := "~"
	if len(args) == 1 {
		target = args[0]
	}

	dir, err := s.resolve("cd", target)
	if err != nil && len(args) == 0 {
		// A configured home that does not exist falls back to the root.
		dir, err = s.tree.Root(), nil
	}
	if err != nil {
		return err
	}
	if !dir.IsDir() {
		return pathErr("cd", target, vfs.ErrNotDir)
	}
	if err := s.checkPerm("cd", target, dir, permExec); err != nil {
		return err
	}
	s.cwd = dir
	return nil
}

func (s *Session) mkdir(args []string) error {
	flags, operands, err := parseFlags("mkdir", args, "p")
	if err != nil {
		return err
	}
	if len(operands) == 0 {
		return usagef("mkdir", "missing operand")
	}

	for _, p := range operands {
		target := s.expandHome(p)
		if flags['p'] {
			if _, err := s.tree.MkdirAll(s.cwd, target); err != nil {
				return pathErr("mkdir", p, err)
			}
			continue
		}
		parent, name, err := s.tree.ResolveParent(s.cwd, target)
		if err != nil {
			return pathErr("mkdir", p, err)
		}
		if _, err := s.tree.CreateChild(parent, name, vfs.KindDir); err != nil {
			return pathErr("mkdir", p, err)
		}
	}
	return nil
}

// createFile makes an empty file at p. The parent must already exist.
func (s *Session) createFile(op, p string) (*vfs.Node, error) {
	parent, name, err := s.tree.ResolveParent(s.cwd, s.expandHome(p))
	if err != nil {
		return nil, pathErr(op, p, err)
	}
	f, err := s.tree.CreateChild(parent, name, vfs.KindFile)
	if err != nil {
		return nil, pathErr(op, p, err)
	}
	return f, nil
}

func (s *Session) touch(args []string) error {
	if len(args) == 0 {
		return usagef("touch", "missing file operand")
	}
	for _, p := range args {
		n, err := s.resolve("touch", p)
		switch {
		case err == nil:
			if err := s.tree.Touch(n); err != nil {
				return pathErr("touch", p, err)
			}
		case errors.Is(err, vfs.ErrNotFound):
			if _, err := s.createFile("touch", p); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}

func (s *Session) write(args []string) error {
	if len(args) == 0 {
		return usagef("write", "missing file operand")
	}
	p := args[0]
	var content []byte
	if len(args) > 1 {
		content = []byte(strings.Join(args[1:], " ") + "\n")
	}

	f, err := s.resolve("write", p)
	switch {
	case err == nil:
		if f.IsDir() {
			return pathErr("write", p, vfs.ErrIsDir)
		}
		if err := s.checkPerm("write", p, f, permWrite); err != nil {
			return err
		}
	case errors.Is(err, vfs.ErrNotFound):
		if f, err = s.createFile("write", p); err != nil {
			return err
		}
	default:
		return err
	}

	if err := s.tree.Write(f, content); err != nil {
		return pathErr("write", p, err)
	}
	return nil
}

func (s *Session) cat(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, usagef("cat", "missing file operand")
	}

	var out []string
	for _, p := range args {
		f, err := s.resolve("cat", p)
		if err != nil {
			return out, err
		}
		if f.IsDir() {
			return out, pathErr("cat", p, vfs.ErrIsDir)
		}
		if err := s.checkPerm("cat", p, f, permRead); err != nil {
			return out, err
		}
		data, err := s.tree.Read(f)
		if err != nil {
			return out, pathErr("cat", p, err)
		}
		out = append(out, splitLines(string(data))...)
	}
	return out, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// removable rejects the root and any directory that holds the cursor.
func (s *Session) removable(op, p string, n *vfs.Node) error {
	if n == s.tree.Root() {
		return pathErr(op, p, vfs.ErrIsRoot)
	}
	if s.tree.Contains(n, s.cwd) {
		return pathErr(op, p, ErrBusy)
	}
	return nil
}

func (s *Session) rm(args []string) error {
	flags, operands, err := parseFlags("rm", args, "rRf")
	if err != nil {
		return err
	}
	if len(operands) == 0 {
		return usagef("rm", "missing operand")
	}
	recursive := flags['r'] || flags['R']

	for _, p := range operands {
		n, err := s.resolve("rm", p)
		if err != nil {
			if flags['f'] && errors.Is(err, vfs.ErrNotFound) {
				continue
			}
			return err
		}
		if err := s.removable("rm", p, n); err != nil {
			return err
		}
		if err := s.tree.Remove(n, recursive); err != nil {
			return pathErr("rm", p, err)
		}
	}
	return nil
}

func (s *Session) rmdir(args []string) error {
	if len(args) == 0 {
		return usagef("rmdir", "missing operand")
	}
	for _, p := range args {
		n, err := s.resolve("rmdir", p)
		if err != nil {
			return err
		}
		if !n.IsDir() {
			return pathErr("rmdir", p, vfs.ErrNotDir)
		}
		if err := s.removable("rmdir", p, n); err != nil {
			return err
		}
		if err := s.tree.Remove(n, false); err != nil {
			return pathErr("rmdir", p, err)
		}
	}
	return nil
}

func (s *Session) treeCmd(args []string) ([]string, error) {
	if len(args) > 1 {
		return nil, usagef("tree", "too many arguments")
	}
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	dir, err := s.resolve("tree", target)
	if err != nil {
		return nil, err
	}
	if !dir.IsDir() {
		return nil, pathErr("tree", target, vfs.ErrNotDir)
	}

	out := []string{target}
	dirs, files := 0, 0
	err = s.tree.Walk(dir, func(_ string, e vfs.Entry, depth int) error {
		if depth == 0 {
			return nil
		}
		name := e.Name
		if e.Kind == vfs.KindDir {
			dirs++
			name += vfs.Separator
		} else {
			files++
		}
		out = append(out, strings.Repeat("  ", depth)+name)
		return nil
	})
	if err != nil {
		return nil, pathErr("tree", target, err)
	}
	out = append(out, fmt.Sprintf("%d directories, %d files", dirs, files))
	return out, nil
}

func (s *Session) find(args []string) ([]string, error) {
	var target, pattern string
	switch len(args) {
	case 1:
		target, pattern = ".", args[0]
	case 2:
		target, pattern = args[0], args[1]
	default:
		return nil, usagef("find", "usage: %s", CmdFind.Usage())
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, usagef("find", "bad pattern %q", pattern)
	}

	dir, err := s.resolve("find", target)
	if err != nil {
		return nil, err
	}
	if !dir.IsDir() {
		return nil, pathErr("find", target, vfs.ErrNotDir)
	}

	// Patterns without a separator match the base name, like find -name.
	byName := !strings.Contains(pattern, vfs.Separator)
	base := s.tree.PathOf(dir)

	var out []string
	err = s.tree.Walk(dir, func(p string, e vfs.Entry, depth int) error {
		if depth == 0 {
			return nil
		}
		subject := strings.TrimPrefix(strings.TrimPrefix(p, base), vfs.Separator)
		if byName {
			subject = e.Name
		}
		if ok, _ := doublestar.Match(pattern, subject); ok {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, pathErr("find", target, err)
	}
	return out, nil
}

func (s *Session) stat(args []string) ([]string, error) {
	if len(args) != 1 {
		return nil, usagef("stat", "usage: %s", CmdStat.Usage())
	}
	p := args[0]

	n, err := s.resolve("stat", p)
	if err != nil {
		return nil, err
	}
	info, err := s.tree.Stat(n)
	if err != nil {
		return nil, pathErr("stat", p, err)
	}

	out := []string{
		"  File: " + info.Path,
		"  Type: " + info.Kind.String(),
		"  Size: " + strconv.FormatInt(info.Size, 10),
		fmt.Sprintf("  Mode: %s (%04o)", info.Mode, info.Mode.Perm()),
		"Modify: " + info.ModTime.Format(time.RFC3339),
	}
	if info.Kind == vfs.KindFile {
		data, err := s.tree.Read(n)
		if err != nil {
			return nil, pathErr("stat", p, err)
		}
		mime, charset := detectContent(data)
		out = append(out, "  MIME: "+mime, "Charset: "+charset)
	}
	return out, nil
}

// detectContent sniffs the MIME type and character set of file content.
func detectContent(data []byte) (mime, charset string) {
	if len(data) == 0 {
		return "inode/x-empty", "binary"
	}
	mime = mimetype.Detect(data).String()

	charset = "unknown"
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err == nil && result != nil {
		charset = strings.ToLower(result.Charset)
	}
	return mime, charset
}

func (s *Session) chmod(args []string) error {
	if len(args) != 2 {
		return usagef("chmod", "usage: %s", CmdChmod.Usage())
	}
	mode, p := args[0], args[1]

	perm, err := strconv.ParseUint(mode, 8, 32)
	if err != nil || perm > uint64(fs.ModePerm) {
		return usagef("chmod", "invalid mode: %q", mode)
	}
	n, err := s.resolve("chmod", p)
	if err != nil {
		return err
	}
	if err := s.tree.Chmod(n, fs.FileMode(perm)); err != nil {
		return pathErr("chmod", p, err)
	}
	return nil
}

func help() []string {
	out := make([]string, 0, len(commandInfos))
	for c := CmdLs; int(c) < len(commandInfos); c++ {
		info := commandInfos[c]
		out = append(out, fmt.Sprintf("%-24s %s", info.usage, info.summary))
	}
	return out
}
