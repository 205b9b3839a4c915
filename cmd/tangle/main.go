package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/tangle"
	"github.com/wippyai/tangle/endpoint"
	"github.com/wippyai/tangle/errors"
	"github.com/wippyai/tangle/mirror"
)

type options struct {
	file        string
	rootName    string
	sets        []string
	verbose     bool
	quiet       bool
	interactive bool
}

func main() {
	var (
		opts options
		sets setFlags
	)
	flag.StringVar(&opts.file, "file", "", "Path to a YAML or JSON document")
	flag.StringVar(&opts.rootName, "root", "", "Name of the root endpoint (default: file name)")
	flag.Var(&sets, "set", "Write path=value through the mirrors (repeatable)")
	flag.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	flag.BoolVar(&opts.quiet, "q", false, "Do not print endpoint events")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()
	opts.sets = sets

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Usage: tangle -file <doc.yaml> [-root name] [-set path=value ...]")
		fmt.Fprintln(os.Stderr, "       tangle -file <doc.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is a loaded document bound to an endpoint tree.
type session struct {
	tangler *mirror.Tangler
	mirror  *mirror.Mirror
	root    *endpoint.Endpoint
	log     *eventLog
	logger  *zap.Logger
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func openSession(opts options, events io.Writer, maxLines int) (*session, error) {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	raw, err := loadDocument(opts.file)
	if err != nil {
		return nil, err
	}

	name := opts.rootName
	if name == "" {
		name = filepath.Base(opts.file)
	}

	s := &session{
		tangler: mirror.New(mirror.WithLogger(logger)),
		log:     &eventLog{out: events, max: maxLines},
		logger:  logger,
	}
	s.mirror = s.tangler.Wrap(raw).(*mirror.Mirror)
	s.root = endpoint.New(name,
		endpoint.WithLogger(logger),
		endpoint.WithObserver(s.log),
	)

	if err := s.root.Tangle(s.mirror); err != nil {
		return nil, fmt.Errorf("bind document: %w", err)
	}
	logger.Debug("document bound", zap.String("file", opts.file), zap.Int("mirrors", s.tangler.Len()))
	return s, nil
}

// assign writes value at path through the mirror bound to the path's parent.
// Only the last segment may be missing; assign never creates endpoints itself.
func (s *session) assign(path string, value any) error {
	segments := strings.Split(path, "/")
	parent := s.root
	for _, name := range segments[:len(segments)-1] {
		next, ok := parent.Lookup(name)
		if !ok {
			return errors.NotFound(errors.PhasePath, "endpoint", path)
		}
		parent = next
	}

	key := segments[len(segments)-1]
	if key == "" {
		return errors.InvalidArgument(errors.PhasePath, "empty property name in "+strconv.Quote(path))
	}
	w, ok := parent.Value().(tangle.Writable)
	if !ok {
		return errors.New(errors.PhaseBind, errors.KindInvalidArgument).
			Path(parent.Path()...).
			Detail("value does not accept writes").
			Build()
	}
	if err := w.Write(key, value); err != nil {
		return errors.Wrap(errors.PhaseBind, errors.KindInvalidArgument, err, "set "+path)
	}
	return nil
}

func run(opts options, stdout io.Writer) error {
	var events io.Writer = stdout
	if opts.quiet {
		events = nil
	}

	s, err := openSession(opts, events, 0)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	for _, raw := range opts.sets {
		a, err := parseAssignment(raw)
		if err != nil {
			return err
		}
		if err := s.assign(a.path, a.value); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout)
	printTree(stdout, s.root)
	return nil
}
