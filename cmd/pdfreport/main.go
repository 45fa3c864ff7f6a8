// Command pdfreport builds a PDF report from a template and data sources.
//
// # Usage
//
//	pdfreport -template invoice.xml -o invoice.pdf \
//	    -json lines=lines.json \
//	    -xlsx list:sales=sales.xlsx:Q1 \
//	    -sqlite shop.db -query customers="SELECT name, city FROM customers" \
//	    -var number=2024-001
//
// Data sources are bound to the section with the given id. Prefix the id
// with "list:" to bind a chart datalist instead. The -query flag reads
// from the database opened with -sqlite.
//
// When -o is omitted the document is written where the template's output
// element says, if it has one.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lvillar/pdfreport"
	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/observability"
)

// pairs is a repeatable id=value flag.
type pairs []string

func (p *pairs) String() string { return strings.Join(*p, ",") }

func (p *pairs) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("%q is not of the form id=value", v)
	}
	*p = append(*p, v)
	return nil
}

func (p pairs) each(fn func(key, value string) error) error {
	for _, kv := range p {
		k, v, _ := strings.Cut(kv, "=")
		if err := fn(strings.TrimSpace(k), v); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfreport: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pdfreport", flag.ContinueOnError)
	var (
		tplPath = fs.String("template", "", "template file (.xml or .json)")
		out     = fs.String("o", "", "output PDF file")
		dbPath  = fs.String("sqlite", "", "SQLite database used by -query")
		baseDir = fs.String("dir", "", "base directory for relative paths in the template")
		verbose = fs.Bool("v", false, "log debug messages to stderr")

		jsonSrc, xlsxSrc, querySrc, vars pairs
	)
	fs.Var(&jsonSrc, "json", "bind a JSON file: id=file.json (repeatable)")
	fs.Var(&xlsxSrc, "xlsx", "bind a spreadsheet: id=file.xlsx[:Sheet] (repeatable)")
	fs.Var(&querySrc, "query", "bind an SQL query: id=SELECT ... (repeatable)")
	fs.Var(&vars, "var", "set a template variable: NAME=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tplPath == "" {
		return fmt.Errorf("missing -template")
	}

	log := observability.Logger(observability.NopLogger{})
	if *verbose {
		log = observability.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []pdfreport.Option{pdfreport.WithLogger(log)}
	if *baseDir != "" {
		opts = append(opts, pdfreport.WithBaseDir(*baseDir))
	}
	r := pdfreport.New(opts...)
	if err := r.LoadTemplate(*tplPath); err != nil {
		return err
	}

	err := jsonSrc.each(func(id, file string) error {
		bind(r, id, dataprovider.NewJSONFile(file, ""))
		return nil
	})
	if err != nil {
		return err
	}
	err = xlsxSrc.each(func(id, file string) error {
		sheet := ""
		if i := strings.LastIndex(file, ":"); i > 1 {
			file, sheet = file[:i], file[i+1:]
		}
		bind(r, id, dataprovider.NewXLSX(file, sheet))
		return nil
	})
	if err != nil {
		return err
	}

	if len(querySrc) > 0 {
		if *dbPath == "" {
			return fmt.Errorf("-query needs -sqlite")
		}
		db, err := sql.Open("sqlite", *dbPath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", *dbPath, err)
		}
		defer db.Close()
		err = querySrc.each(func(id, query string) error {
			bind(r, id, dataprovider.NewSQL(db, query))
			return nil
		})
		if err != nil {
			return err
		}
	}

	err = vars.each(func(name, value string) error {
		r.SetVar(name, value, true)
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.Build(ctx); err != nil {
		return err
	}
	if *out != "" {
		if err := r.OutputFile(*out); err != nil {
			return err
		}
	}
	log.Info("report built", observability.Int("pages", r.PageCount()), observability.String("output", *out))
	return nil
}

// bind attaches p to the section id, or to the datalist named after a
// "list:" prefix.
func bind(r *pdfreport.Report, id string, p dataprovider.Provider) {
	if name, ok := strings.CutPrefix(id, "list:"); ok {
		r.SetDatalist(name, p)
		return
	}
	r.SetSection(id, p, nil)
}
