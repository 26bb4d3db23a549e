package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	gcolor "github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"

	"lin/internal"
	"lin/internal/registry"
)

const usage = `Usage: lin [-tarv] [-k dialect] [-s scoping] [-L lock] [-T templock] [-R registry] /path/to/source.lin
       lin [options] install <package>
       lin [options] contribute <package> <version> /path/to/source.lin`

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func fail(format string, a ...interface{}) {
	fmt.Fprintln(stderr, gcolor.Red("error:"), fmt.Sprintf(format, a...))
	exit(1)
}

func main() {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := internal.FromEnv()
	if err != nil {
		fail("%v", err)
	}
	cfg.Logger = log

	opts, optind, err := getopt.Getopts(os.Args, "tarvk:s:L:T:R:")
	if err != nil {
		fail("%v\n%s", err, usage)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 't':
			cfg.DumpTokens = true
		case 'a':
			cfg.DumpAST = true
		case 'r':
			cfg.DumpStatements = true
		case 'v':
			log.SetLevel(logrus.DebugLevel)
		case 'k':
			cfg.Dialect = opt.Value
		case 's':
			scoping, err := internal.ParseScoping(opt.Value)
			if err != nil {
				fail("%v", err)
			}
			cfg.Scoping = scoping
		case 'L':
			cfg.LockPath = opt.Value
		case 'T':
			cfg.TempLockPath = opt.Value
		case 'R':
			cfg.RegistryURL = opt.Value
		}
	}
	args := os.Args[optind:]

	switch {
	case len(args) == 2 && args[0] == "install":
		install(cfg, args[1])
	case len(args) == 4 && args[0] == "contribute":
		contribute(cfg, args[1], args[2], args[3])
	case len(args) == 1:
		run(cfg, args[0])
	default:
		fail("expected a source file or a command\n%s", usage)
	}
}

func readSource(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		fail("%v", err)
	}
	b, err := os.ReadFile(absPath)
	if err != nil {
		fail("%v", err)
	}
	return string(b)
}

func run(cfg *internal.Config, path string) {
	if !internal.RunSourceWithPrinter(readSource(path), cfg, internal.StdPrinter{}) {
		exit(1)
	}
}

func install(cfg *internal.Config, name string) {
	pkg, err := internal.Install(cfg, name, false)
	if err != nil {
		fail("install %s: %v", name, err)
	}
	color.Green("%s %s is in %s", pkg.Name, pkg.Version, cfg.LockPath)
}

func contribute(cfg *internal.Config, name, version, path string) {
	pkg, err := internal.BuildPackage(cfg, name, version, readSource(path))
	if err != nil {
		fail("contribute %s: %v", name, err)
	}
	if err := registry.NewClient(cfg.RegistryURL, nil).Contribute(pkg); err != nil {
		fail("contribute %s: %v", name, err)
	}
	color.Green("Package '%s' version '%s' contributed with %d functions", pkg.Name, pkg.Version, len(pkg.Functions))
}
