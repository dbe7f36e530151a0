// Command nligen packages files, directories, and tabular sources into a
// portable evidence container.
//
// Usage:
//
//	nligen --out evidence.nli [options] <path>...
//
// Each path is added as a top-level document. Directories are added as folder
// entries with their files beneath them; .csv and .json files are decomposed
// into per-record child entries.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/caseforge/nli"
	"github.com/caseforge/nli/datatypes"
)

type config struct {
	out       string
	custodian string
	examiner  string
	caseNum   string
	evidence  string
	decompose bool
	verbose   bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg := config{decompose: true}

	fs := flag.NewFlagSet("nligen", flag.ExitOnError)
	fs.StringVar(&cfg.out, "out", "", "container destination path (required)")
	fs.StringVar(&cfg.custodian, "custodian", "", "custodian recorded on every entry")
	fs.StringVar(&cfg.examiner, "examiner", "", "examiner name for the container properties")
	fs.StringVar(&cfg.caseNum, "case", "", "case number for the container properties")
	fs.StringVar(&cfg.evidence, "evidence", "", "evidence number for the container properties")
	fs.BoolVar(&cfg.decompose, "decompose", cfg.decompose, "expand .csv and .json sources into child entries")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.out == "" {
		return errors.New("--out is required")
	}
	if fs.NArg() == 0 {
		return errors.New("at least one input path is required")
	}

	var opts []nli.Option
	if cfg.custodian != "" {
		opts = append(opts, nli.WithCustodian(cfg.custodian))
	}
	if cfg.examiner != "" {
		opts = append(opts, nli.WithExaminer(cfg.examiner))
	}
	if cfg.caseNum != "" {
		opts = append(opts, nli.WithCaseNumber(cfg.caseNum))
	}
	if cfg.evidence != "" {
		opts = append(opts, nli.WithEvidenceNumber(cfg.evidence))
	}
	if cfg.verbose {
		opts = append(opts, nli.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	g := nli.New(opts...)
	for _, path := range fs.Args() {
		if err := addPath(g, cfg, path, ""); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
	}

	if err := g.Save(cfg.out); err != nil {
		return err
	}
	fmt.Printf("%s\t%s\n", g.Digest(), cfg.out)
	return nil
}

// addPath registers a single path, recursing one level at a time so nested
// directories keep their folder ancestry.
func addPath(g *nli.Generator, cfg config, path, parentID string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		dirID, err := g.AddDirectory(path, parentID)
		if err != nil {
			return err
		}
		children, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := addPath(g, cfg, filepath.Join(path, child.Name()), dirID); err != nil {
				return err
			}
		}
		return nil
	}

	if cfg.decompose {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			entry, err := datatypes.NewCSVEntry(path, parentID, nil)
			if err != nil {
				return err
			}
			_, err = g.AddEntry(entry)
			return err
		case ".json":
			entry, err := datatypes.NewJSONFileEntry(path, parentID)
			if err != nil {
				return err
			}
			_, err = g.AddEntry(entry)
			return err
		}
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	_, err = g.AddFile(path, mimeType, parentID)
	return err
}
