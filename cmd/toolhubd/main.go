// Command toolhubd is the thin external collaborator spec.md §6 describes:
// it wires discovery, the registry, policy, budget, runtime, observability,
// jobs, and the watcher together behind a small CLI surface. It holds no
// business logic of its own — every decision lives in the packages it
// imports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"goa.design/clue/log"

	"toolhub/adapter"
	"toolhub/adapter/code"
	"toolhub/adapter/core"
	"toolhub/adapter/rpc"
	"toolhub/adapter/skill"
	"toolhub/adapter/workflow"
	"toolhub/budget"
	"toolhub/config"
	"toolhub/coretools"
	"toolhub/discovery"
	"toolhub/jobs"
	"toolhub/observability"
	"toolhub/policy"
	"toolhub/registry"
	"toolhub/runtime"
	"toolhub/spec"
	"toolhub/watcher"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return 0
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the toolhub YAML config")
	fs.StringVar(configPath, "c", "", "path to the toolhub YAML config (shorthand)")
	detail := fs.String("detail", "short", "list detail level: short|normal|full")
	if err := fs.Parse(rest); err != nil {
		return 1
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "toolhubd: --config/-c is required")
		return 1
	}

	ctx := logContext()

	switch cmd {
	case "scan":
		return cmdScan(ctx, *configPath)
	case "verify":
		return cmdVerify(ctx, *configPath)
	case "list":
		return cmdList(ctx, *configPath, *detail)
	default:
		fmt.Fprintf(os.Stderr, "toolhubd: unrecognized command %q\n", cmd)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: toolhubd <scan|verify|list|help> --config/-c <path> [--detail short|normal|full]")
}

func logContext() context.Context {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))
	if observability.DebugFromEnv() {
		ctx = log.Context(ctx, log.WithDebug())
	}
	return ctx
}

// scanResult bundles everything loadAndScan assembles, so each subcommand
// can use as much or as little of it as it needs.
type scanResult struct {
	opts     *config.RuntimeOptions
	reg      *registry.Registry
	errCount int
}

func loadAndScan(ctx context.Context, configPath string) (*scanResult, error) {
	opts, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	res := &scanResult{opts: opts, reg: reg}

	onError := func(dir string, err error) {
		res.errCount++
		log.Error(ctx, err, log.KV{K: "dir", V: dir})
	}

	specs := scanAll(opts, onError)
	if err := reg.Replace(specs); err != nil {
		return nil, fmt.Errorf("toolhubd: register scanned specs: %w", err)
	}
	return res, nil
}

// scanAll re-scans every configured root, merging in the bundled core
// tool specs wherever a root names the "coreTools" sentinel, per
// spec.md §4.2/§6.
func scanAll(opts *config.RuntimeOptions, onError func(dir string, err error)) []*spec.ToolSpec {
	var roots []discovery.Root
	includeCoreTools := false
	for _, r := range opts.Roots {
		if r.CoreTools {
			includeCoreTools = true
			continue
		}
		roots = append(roots, discovery.Root{Path: r.Path, Namespace: r.Namespace})
	}

	out := discovery.Scan(discovery.Config{
		Roots:     roots,
		DefaultNS: opts.Namespace,
		OnError:   onError,
	})
	if includeCoreTools {
		out = append(out, coretools.Specs()...)
	}
	return discovery.FilterByInclude(out, opts.Extensions)
}

func cmdScan(ctx context.Context, configPath string) int {
	res, err := loadAndScan(ctx, configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "toolhubd:", err)
		return 1
	}
	fmt.Printf("scanned %d tools (%d directory errors)\n", len(res.reg.List()), res.errCount)
	if res.errCount > 0 {
		return 1
	}
	return 0
}

func cmdVerify(ctx context.Context, configPath string) int {
	res, err := loadAndScan(ctx, configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "toolhubd:", err)
		return 1
	}
	for _, name := range res.reg.List() {
		s, _ := res.reg.Get(name)
		if err := s.CompileSchemas(); err != nil {
			fmt.Fprintf(os.Stderr, "toolhubd: %s: invalid schema: %v\n", name, err)
			res.errCount++
		}
	}
	if res.errCount > 0 {
		return 1
	}
	fmt.Printf("verified %d tools\n", len(res.reg.List()))
	return 0
}

func cmdList(ctx context.Context, configPath, detail string) int {
	res, err := loadAndScan(ctx, configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "toolhubd:", err)
		return 1
	}
	names := res.reg.List()
	sort.Strings(names)
	for _, name := range names {
		s, _ := res.reg.Get(name)
		printSpec(s, detail)
	}
	if res.errCount > 0 {
		return 1
	}
	return 0
}

func printSpec(s *spec.ToolSpec, detail string) {
	switch detail {
	case "full":
		fmt.Printf("%s\t%s\t%s\n\t%s\n\tcapabilities: %v\n\ttags: %v\n",
			s.Name, s.Kind, s.Version, s.Description, capList(s), s.TagList())
	case "normal":
		fmt.Printf("%s\t%s\t%s\n", s.Name, s.Kind, s.Description)
	default:
		fmt.Printf("%s\t%s\n", s.Name, s.Kind)
	}
}

func capList(s *spec.ToolSpec) []spec.Capability {
	out := make([]spec.Capability, 0, len(s.Capabilities))
	for c := range s.Capabilities {
		out = append(out, c)
	}
	return out
}

// buildRuntime assembles the full invocation pipeline (registry, policy,
// budget, adapters, observability, jobs, watcher) from loaded options.
// The scan/verify/list subcommands above only need the registry and stop
// short of this; a long-running deployment embedding this module calls
// buildRuntime to get an invocation-ready *runtime.Runtime plus its job
// manager and watcher.
func buildRuntime(ctx context.Context, opts *config.RuntimeOptions, reg *registry.Registry) (*runtime.Runtime, *jobs.Manager, *watcher.Watcher, error) {
	ctConfig := opts.CoreTools.ToCoreToolsConfig(opts.Dir())

	coreAdapter := core.New()
	coretools.Register(coreAdapter, &ctConfig)

	adapters := adapter.NewRegistry(
		coreAdapter,
		rpc.New(opts.Namespace, nil),
		code.New("node"),
		skill.New("node"),
		workflow.New(nil),
	)

	pol := policy.New(policy.Options{
		SandboxPaths:   []string{ctConfig.SandboxRoot},
		AllowedDomains: ctConfig.AllowedHosts,
	})

	otel.SetMeterProvider(observability.NewMeterProvider())
	otel.SetTracerProvider(sdktrace.NewTracerProvider())

	eventLog := observability.NewEventLog(0)
	metrics := observability.NewOtelMetrics()
	tracer := observability.NewOtelTracer()

	budMgr := budget.NewManager()
	rt := runtime.New(reg, pol, budMgr, adapters)
	rt.Events = eventLog
	rt.Metrics = metrics
	rt.Tracer = tracer

	jobMgr := jobs.NewManager(jobs.NewMemStore(), eventLog, 0)
	jobMgr.StartSweep(ctx, 0)

	onError := func(dir string, err error) { log.Error(ctx, err, log.KV{K: "dir", V: dir}) }
	w, err := watcher.New(reg, func(onErr func(string, error)) []*spec.ToolSpec {
		return scanAll(opts, onErr)
	}, onError, opts.Watch.Debounce())
	if err != nil {
		return nil, nil, nil, err
	}
	for _, r := range opts.Roots {
		if r.CoreTools {
			continue
		}
		if err := w.AddRoot(r.Path); err != nil {
			onError(r.Path, err)
		}
	}
	w.Start()

	return rt, jobMgr, w, nil
}

func waitForShutdown(ctx context.Context, jobMgr *jobs.Manager, w *watcher.Watcher) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	w.Stop()
	jobMgr.StopSweep()
	log.Print(ctx, log.KV{K: "event", V: "shutdown"})
}
