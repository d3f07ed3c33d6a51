package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	gb "github.com/t7a/gitbase/db"
)

func init() {
	var debug string
	debug = os.Getenv("DEBUG")
	if debug == "1" {
		log.SetLevel(log.DebugLevel)
	}
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns string presentation of log caller which is formatted as
// `/path/to/file.go:line_number`. e.g. `/internal/app/api.go:25`
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d gid %d", strings.TrimPrefix(f.File, p), f.Line, gb.GetGID())
	}
}

const usage = `gitbase

Usage:
  gb init [<path>]
  gb cat-file <type> <object>
  gb hash-object [-w] [-t <type>] <file>
  gb log [--oneline] [<commit>]
  gb rev-parse [--type=<type>] <name>
  gb show-ref
  gb tag [-a] [-m <message>] [<name> [<object>]]
  gb commit-tree <tree> [-p <parent>]... -m <message>
  gb update-ref <ref> <object>

Options:
  -h --help      Show this screen.
  --version      Show version.
  -w             Write the object into the store.
  -t <type>      Object type [default: blob].
  -p <parent>    Parent commit.
  -m <message>   Commit or tag message.
  -a             Create an annotated tag.
  --type=<type>  Peel the result to this object type.
  --oneline      One line per commit instead of a graphviz digraph.
`

type Opts struct {
	Init       bool     `docopt:"init"`
	CatFile    bool     `docopt:"cat-file"`
	HashObject bool     `docopt:"hash-object"`
	Log        bool     `docopt:"log"`
	RevParse   bool     `docopt:"rev-parse"`
	ShowRef    bool     `docopt:"show-ref"`
	Tag        bool     `docopt:"tag"`
	CommitTree bool     `docopt:"commit-tree"`
	UpdateRef  bool     `docopt:"update-ref"`
	Path       string   `docopt:"<path>"`
	Type       string   `docopt:"<type>"`
	Object     string   `docopt:"<object>"`
	File       string   `docopt:"<file>"`
	Commit     string   `docopt:"<commit>"`
	Name       string   `docopt:"<name>"`
	Tree       string   `docopt:"<tree>"`
	Ref        string   `docopt:"<ref>"`
	Write      bool     `docopt:"-w"`
	Kind       string   `docopt:"-t"`
	Parents    []string `docopt:"-p"`
	Message    string   `docopt:"-m"`
	Annotate   bool     `docopt:"-a"`
	PeelType   string   `docopt:"--type"`
	Oneline    bool     `docopt:"--oneline"`
}

// command runs one subcommand and returns the process exit code.
type command func(opts *Opts) (rc int)

// commands maps each subcommand token to its implementation.
func commands() map[string]command {
	return map[string]command{
		"init":        cmdInit,
		"cat-file":    cmdCatFile,
		"hash-object": cmdHashObject,
		"log":         cmdLog,
		"rev-parse":   cmdRevParse,
		"show-ref":    cmdShowRef,
		"tag":         cmdTag,
		"commit-tree": cmdCommitTree,
		"update-ref":  cmdUpdateRef,
	}
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {
	parser := &docopt.Parser{OptionsFirst: false, HelpHandler: docopt.PrintHelpOnly}
	o, err := parser.ParseArgs(usage, os.Args[1:], "0.0")
	if err != nil {
		return 22
	}
	var opts Opts
	err = o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)
	return dispatch(commands(), o, &opts)
}

// dispatch runs the command whose token docopt matched.
func dispatch(table map[string]command, o docopt.Opts, opts *Opts) (rc int) {
	for name, cmd := range table {
		on, _ := o.Bool(name)
		if on {
			return cmd(opts)
		}
	}
	// --help and --version land here
	return 0
}

func opendb() (db *gb.Db, err error) {
	return gb.Locate(".")
}

func fail(err error) int {
	log.Error(err)
	return 42
}

func cmdInit(opts *Opts) (rc int) {
	path := opts.Path
	if path == "" {
		path = "."
	}
	db, err := gb.Db{Worktree: path}.Create()
	if err != nil {
		return fail(err)
	}
	rel := filepath.Join(path, gb.GitDirName)
	log.Debugf("initialized %s", db.GitDir)
	fmt.Printf("Initialized empty repository in %s\n", rel)
	return
}

func cmdCatFile(opts *Opts) (rc int) {
	kind, err := gb.ParseKind(opts.Type)
	if err != nil {
		return fail(err)
	}
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	digest, err := db.Resolve(opts.Object, kind)
	if err != nil {
		return fail(err)
	}
	obj, err := db.ReadObject(digest)
	if err != nil {
		return fail(err)
	}
	buf, err := obj.Serialize()
	if err != nil {
		return fail(err)
	}
	_, err = os.Stdout.Write(buf)
	if err != nil {
		log.Error(err)
		return 25
	}
	return
}

func cmdHashObject(opts *Opts) (rc int) {
	kind, err := gb.ParseKind(opts.Kind)
	if err != nil {
		return fail(err)
	}
	buf, err := os.ReadFile(opts.File)
	if err != nil {
		log.Error(err)
		return 5
	}
	obj, err := gb.Decode(kind, buf)
	if err != nil {
		return fail(err)
	}
	var digest string
	if opts.Write {
		db, err := opendb()
		if err != nil {
			return fail(err)
		}
		digest, err = db.WriteObject(obj)
		if err != nil {
			return fail(err)
		}
	} else {
		digest, err = gb.HashObject(gb.DefaultAlgo, obj)
		if err != nil {
			return fail(err)
		}
	}
	fmt.Println(digest)
	return
}

func cmdLog(opts *Opts) (rc int) {
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	name := opts.Commit
	if name == "" {
		name = "HEAD"
	}
	digest, err := db.Resolve(name, gb.KindCommit)
	if err != nil {
		return fail(err)
	}
	if opts.Oneline {
		err = gb.WriteOneline(os.Stdout, db.Store, digest)
	} else {
		err = gb.WriteGraphviz(os.Stdout, db.Store, digest)
	}
	if err != nil {
		return fail(err)
	}
	return
}

func cmdRevParse(opts *Opts) (rc int) {
	var kind gb.Kind
	if opts.PeelType != "" {
		var err error
		kind, err = gb.ParseKind(opts.PeelType)
		if err != nil {
			return fail(err)
		}
	}
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	digest, err := db.Resolve(opts.Name, kind)
	if err != nil {
		return fail(err)
	}
	fmt.Println(digest)
	return
}

func cmdShowRef(opts *Opts) (rc int) {
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	refs, err := db.ListRefs()
	if err != nil {
		return fail(err)
	}
	for _, ref := range refs {
		fmt.Printf("%s %s\n", ref.Digest, ref.Name)
	}
	return
}

func cmdTag(opts *Opts) (rc int) {
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	if opts.Name == "" {
		refs, err := db.ListRefs()
		if err != nil {
			return fail(err)
		}
		for _, ref := range refs {
			if strings.HasPrefix(ref.Name, "refs/tags/") {
				fmt.Println(strings.TrimPrefix(ref.Name, "refs/tags/"))
			}
		}
		return
	}

	object := opts.Object
	if object == "" {
		object = "HEAD"
	}
	target, err := db.Resolve(object, 0)
	if err != nil {
		return fail(err)
	}
	var tag *gb.Tag
	if opts.Annotate {
		obj, err := db.ReadObject(target)
		if err != nil {
			return fail(err)
		}
		tagger, err := identity(db, "COMMITTER")
		if err != nil {
			return fail(err)
		}
		tag = gb.NewTag(target, obj.Kind(), opts.Name, tagger, opts.Message)
	}
	_, err = db.CreateTag(opts.Name, target, tag)
	if err != nil {
		return fail(err)
	}
	return
}

func cmdCommitTree(opts *Opts) (rc int) {
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	tree, err := db.Resolve(opts.Tree, gb.KindTree)
	if err != nil {
		return fail(err)
	}
	var parents []string
	for _, p := range opts.Parents {
		digest, err := db.Resolve(p, gb.KindCommit)
		if err != nil {
			return fail(err)
		}
		parents = append(parents, digest)
	}
	author, err := identity(db, "AUTHOR")
	if err != nil {
		return fail(err)
	}
	committer, err := identity(db, "COMMITTER")
	if err != nil {
		return fail(err)
	}
	digest, err := db.WriteObject(gb.NewCommit(tree, parents, author, committer, opts.Message))
	if err != nil {
		return fail(err)
	}
	fmt.Println(digest)
	return
}

func cmdUpdateRef(opts *Opts) (rc int) {
	db, err := opendb()
	if err != nil {
		return fail(err)
	}
	digest, err := db.Resolve(opts.Object, 0)
	if err != nil {
		return fail(err)
	}
	err = db.UpdateRef(opts.Ref, digest)
	if err != nil {
		return fail(err)
	}
	return
}

// identity builds the author or committer signature from the
// GIT_<role>_NAME, _EMAIL and _DATE environment variables, falling
// back to the author variables, then to user.name and user.email in
// the repository config, then to the current time.
func identity(db *gb.Db, role string) (sig gb.Signature, err error) {
	lookup := func(field string) string {
		if v := os.Getenv("GIT_" + role + "_" + field); v != "" {
			return v
		}
		return os.Getenv("GIT_AUTHOR_" + field)
	}
	sig.Name = lookup("NAME")
	if sig.Name == "" {
		sig.Name = db.Config.UserName
	}
	sig.Email = lookup("EMAIL")
	if sig.Email == "" {
		sig.Email = db.Config.UserEmail
	}
	if sig.Name == "" || sig.Email == "" {
		return sig, errors.Errorf("%s identity unknown: set user.name and user.email", strings.ToLower(role))
	}
	date := lookup("DATE")
	if date == "" {
		sig.When = time.Now()
		return
	}
	sig.When, err = gb.ParseDate(date)
	return
}
