package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/samber/lo"

	"github.com/hanpama/postgraph/internal/content"
	"github.com/hanpama/postgraph/internal/engine"
	"github.com/hanpama/postgraph/internal/events"
	"github.com/hanpama/postgraph/internal/fixture"
	"github.com/hanpama/postgraph/internal/hooks"
	"github.com/hanpama/postgraph/internal/otel"
	"github.com/hanpama/postgraph/internal/postentity"
	"github.com/hanpama/postgraph/internal/posttype"
	"github.com/hanpama/postgraph/internal/reqid"
	"github.com/hanpama/postgraph/internal/rootquery"
	"github.com/hanpama/postgraph/internal/schema"
)

const rootUsage = `postgraph - expose site post types as a GraphQL schema

USAGE:
  postgraph <command> [flags]

COMMANDS:
  compile-sdl      Build the schema for a site and print it as SDL
  query            Execute a GraphQL operation against a site
  types            List post types and whether they are exposed
  help             Show help for any command
`

const siteFlagsUsage = `  -content.file <file>          YAML site fixture (default: builtin post types, no records)
  -graphql.enable-type <name>   Expose an extra post type. Repeatable
  -graphql.exclude-type <name>  Hide a post type from the schema. Repeatable
  -log.v <level>                Log verbosity (default: 0)
`

const compileSDLUsage = `compile-sdl FLAGS:
` + siteFlagsUsage + `  -out <file>                   Write SDL to file (default: stdout)
  (Validation always runs; exits non-zero on errors)
`

const queryUsage = `query FLAGS:
` + siteFlagsUsage + `  -query <text|@file>           GraphQL operation (required)
  -operation <name>             Operation to run when the document has several
  -variables <json>             Variables as a JSON object
  -pretty                       Pretty-print the JSON result
  -otel.endpoint <addr>         OTLP collector endpoint
  -otel.service <name>          OpenTelemetry service name (default: postgraph)
`

const typesUsage = `types FLAGS:
` + siteFlagsUsage

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("postgraph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "compile-sdl":
		return cmdCompileSDL(cmdArgs, stdout, stderr)
	case "query":
		return cmdQuery(cmdArgs, stdout, stderr)
	case "types":
		return cmdTypes(cmdArgs, stdout, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "compile-sdl":
		fmt.Fprint(stdout, compileSDLUsage)
	case "query":
		fmt.Fprint(stdout, queryUsage)
	case "types":
		fmt.Fprint(stdout, typesUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return strings.Join(*s, ",") }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// siteFlags are shared by every command that loads a site.
type siteFlags struct {
	contentFile string
	enable      stringListFlag
	exclude     stringListFlag
	verbosity   int
}

func (f *siteFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.contentFile, "content.file", "", "YAML site fixture")
	fs.Var(&f.enable, "graphql.enable-type", "Expose an extra post type")
	fs.Var(&f.exclude, "graphql.exclude-type", "Hide a post type from the schema")
	fs.IntVar(&f.verbosity, "log.v", 0, "Log verbosity")
}

type site struct {
	bus      *hooks.Bus
	registry *posttype.Registry
	store    content.Store
	entities *postentity.Entities
	log      logr.Logger
}

func (f *siteFlags) open(stderr io.Writer) (*site, error) {
	stdr.SetVerbosity(f.verbosity)
	logger := stdr.New(log.New(stderr, "", log.LstdFlags)).WithName("postgraph")

	registry := posttype.NewRegistry()
	var store content.Store
	if f.contentFile == "" {
		registry.RegisterBuiltins()
		store = content.NewMemStore("")
	} else {
		s, err := fixture.LoadFile(f.contentFile)
		if err != nil {
			return nil, fmt.Errorf("load site: %w", err)
		}
		s.Register(registry)
		store = s.NewStore()
	}

	bus := hooks.New()
	entities := postentity.New(registry, store, bus, postentity.WithLogger(logger.WithName("entities")))
	entities.Init()
	for _, name := range lo.Uniq(f.enable) {
		entities.EnableEntityType(name)
	}
	if len(f.exclude) > 0 {
		exclude := []string(f.exclude)
		hooks.AddFilter(bus, events.AllowedEntityTypesHook, func(_ context.Context, types []string) []string {
			return lo.Without(types, exclude...)
		})
	}
	return &site{bus: bus, registry: registry, store: store, entities: entities, log: logger}, nil
}

func (s *site) schema(ctx context.Context) (*schema.Schema, error) {
	sch, err := rootquery.Build(ctx, s.bus)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}

func cmdCompileSDL(args []string, stdout, stderr io.Writer) error {
	var sf siteFlags
	outFile := ""
	fs := flag.NewFlagSet("compile-sdl", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	sf.register(fs)
	fs.StringVar(&outFile, "out", outFile, "Write SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, compileSDLUsage)
		return err
	}

	st, err := sf.open(stderr)
	if err != nil {
		return err
	}
	ctx, _ := reqid.NewContext(context.Background())
	sch, err := st.schema(ctx)
	if err != nil {
		return err
	}
	if err := schema.Validate(sch); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Fprint(stdout, sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

func cmdQuery(args []string, stdout, stderr io.Writer) error {
	var sf siteFlags
	query := ""
	operation := ""
	variables := ""
	pretty := false
	otelEndpoint := ""
	otelService := "postgraph"
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	sf.register(fs)
	fs.StringVar(&query, "query", query, "GraphQL operation")
	fs.StringVar(&operation, "operation", operation, "Operation name")
	fs.StringVar(&variables, "variables", variables, "Variables as JSON")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print the result")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, queryUsage)
		return err
	}
	if query == "" {
		fmt.Fprint(stderr, queryUsage)
		return fmt.Errorf("-query is required")
	}
	if file, ok := strings.CutPrefix(query, "@"); ok {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		query = string(raw)
	}
	var vars map[string]any
	if variables != "" {
		if err := json.Unmarshal([]byte(variables), &vars); err != nil {
			return fmt.Errorf("parse -variables: %w", err)
		}
	}

	st, err := sf.open(stderr)
	if err != nil {
		return err
	}
	shutdown, err := otel.Setup(context.Background(), st.bus, otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx, _ := reqid.NewContext(context.Background())
	sch, err := st.schema(ctx)
	if err != nil {
		return err
	}
	eng, err := engine.New(sch, st.bus, engine.WithLogger(st.log.WithName("engine")))
	if err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	res := eng.Do(ctx, engine.Request{Query: query, OperationName: operation, Variables: vars})

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(res, "", "  ")
	} else {
		out, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(stdout, string(out))
	if len(res.Errors) > 0 {
		return fmt.Errorf("query failed with %d error(s)", len(res.Errors))
	}
	return nil
}

func cmdTypes(args []string, stdout, stderr io.Writer) error {
	var sf siteFlags
	fs := flag.NewFlagSet("types", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	sf.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, typesUsage)
		return err
	}
	st, err := sf.open(stderr)
	if err != nil {
		return err
	}

	allowed := st.entities.AllowedTypes(context.Background())
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tEXPOSED\tQUERY CLASS")
	for _, name := range st.registry.Names() {
		pt, _ := st.registry.Lookup(name)
		class := pt.GraphQLQueryClass
		if class == "" {
			class = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", pt.Name, pt.Label, lo.Contains(allowed, name), class)
	}
	return tw.Flush()
}
