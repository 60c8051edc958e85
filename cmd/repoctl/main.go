// Command repoctl drives a schema repository from the command line.
//
// Usage:
//
//	repoctl [-config repoctl.yaml] <command> [args]
//
// Commands:
//
//	subjects                       list all subjects
//	register-subject <name>        create a subject (sync.validator_class applies)
//	lookup <name>                  check that a subject exists
//	register <subject> <file|->    register a schema file under a subject
//	latest <subject>               print the latest entry
//	entries <subject>              print every entry in server order
//	get <subject> <id>             print the schema registered under id
//	check <format> <file|->        validate a schema file locally (avro | protobuf)
//	export                         dump every subject and entry (export.* config applies)
//	sync <dir>                     mirror <dir>/<subject>/<schema files> into the repository
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	schemarepo "github.com/schemarepo-lab/go-schema-repo"
	"github.com/schemarepo-lab/go-schema-repo/formats/avro"
	"github.com/schemarepo-lab/go-schema-repo/formats/protobuf"
	"github.com/schemarepo-lab/go-schema-repo/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	client, err := schemarepo.New(schemarepo.Config{
		URL:       cfg.Registry.URL,
		Timeout:   cfg.Registry.TimeoutDuration(),
		UserAgent: cfg.Registry.UserAgent,
	})
	if err != nil {
		slog.Error("Failed to create repository client", "error", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), client, cfg, args[0], args[1:]); err != nil {
		slog.Error("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *schemarepo.Client, cfg *config.Config, command string, args []string) error {
	switch command {
	case "subjects":
		for _, s := range client.Subjects(ctx) {
			fmt.Println(s.Name())
		}
		return nil

	case "register-subject":
		if len(args) != 1 {
			return fmt.Errorf("usage: register-subject <name>")
		}
		subject, err := client.Register(ctx, args[0], cfg.Sync.ValidatorClass)
		if err != nil {
			return err
		}
		fmt.Println(subject.Name())
		return nil

	case "lookup":
		if len(args) != 1 {
			return fmt.Errorf("usage: lookup <name>")
		}
		subject, err := client.Lookup(ctx, args[0])
		if err != nil {
			return err
		}
		if subject == nil {
			return fmt.Errorf("subject %q not found", args[0])
		}
		fmt.Println(subject.Name())
		return nil

	case "register":
		if len(args) != 2 {
			return fmt.Errorf("usage: register <subject> <file|->")
		}
		subject, err := requireSubject(ctx, client, args[0])
		if err != nil {
			return err
		}
		schema, err := readSchemaArg(args[1])
		if err != nil {
			return err
		}
		entry, err := subject.Register(ctx, schema)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("registration yielded no entry")
		}
		fmt.Println(entry.ID)
		return nil

	case "latest":
		if len(args) != 1 {
			return fmt.Errorf("usage: latest <subject>")
		}
		subject, err := requireSubject(ctx, client, args[0])
		if err != nil {
			return err
		}
		entry := subject.Latest(ctx)
		if entry == nil {
			return fmt.Errorf("subject %q has no entries", args[0])
		}
		fmt.Printf("%s\t%s\n", entry.ID, entry.Schema)
		return nil

	case "entries":
		if len(args) != 1 {
			return fmt.Errorf("usage: entries <subject>")
		}
		subject, err := requireSubject(ctx, client, args[0])
		if err != nil {
			return err
		}
		for _, entry := range subject.AllEntries(ctx) {
			fmt.Printf("%s\t%s\n", entry.ID, entry.Schema)
		}
		return nil

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <subject> <id>")
		}
		subject, err := requireSubject(ctx, client, args[0])
		if err != nil {
			return err
		}
		entry, err := subject.LookupByID(ctx, args[1])
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("id %q not found under subject %q", args[1], args[0])
		}
		fmt.Println(entry.Schema)
		return nil

	case "check":
		if len(args) != 2 {
			return fmt.Errorf("usage: check <format> <file|->")
		}
		schema, err := readSchemaArg(args[1])
		if err != nil {
			return err
		}
		if err := newPrevalidator().Check(ctx, schemarepo.Format(args[0]), schema); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	case "export":
		return runExport(ctx, client, cfg)

	case "sync":
		if len(args) != 1 {
			return fmt.Errorf("usage: sync <dir>")
		}
		opts := schemarepo.SyncOptions{ValidatorClass: cfg.Sync.ValidatorClass}
		if cfg.Sync.Validate {
			opts.Prevalidator = newPrevalidator()
		}
		report, err := client.SyncDir(ctx, args[0], opts)
		if err != nil {
			return err
		}
		slog.Info("Sync complete",
			"subjects_created", report.SubjectsCreated,
			"registered", report.Registered,
			"already_present", report.AlreadyPresent,
			"invalid", len(report.Invalid),
		)
		for _, path := range report.Invalid {
			slog.Warn("Schema file was not accepted", "file", path)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runExport(ctx context.Context, client *schemarepo.Client, cfg *config.Config) error {
	dump := client.Export(ctx, cfg.Export.Workers)

	var data []byte
	var err error
	switch cfg.Export.Format {
	case "yaml":
		data, err = yaml.Marshal(dump)
	default:
		data, err = json.MarshalIndent(dump, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding dump: %w", err)
	}

	if cfg.Export.Out == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(cfg.Export.Out, data, 0o644)
}

func requireSubject(ctx context.Context, client *schemarepo.Client, name string) (*schemarepo.Subject, error) {
	subject, err := client.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, fmt.Errorf("subject %q not found", name)
	}
	return subject, nil
}

// readSchemaArg reads schema text from a file path, or stdin for "-".
func readSchemaArg(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading schema from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("reading schema file: %w", err)
	}
	return string(data), nil
}

func newPrevalidator() *schemarepo.Prevalidator {
	p := schemarepo.NewPrevalidator()
	p.RegisterFormat(schemarepo.FormatAvro, avro.NewChecker())
	p.RegisterFormat(schemarepo.FormatProtobuf, protobuf.NewChecker())
	return p
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
