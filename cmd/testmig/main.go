package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"testmig/internal/analysis"
	"testmig/internal/ast"
	"testmig/internal/config"
	"testmig/internal/crawler"
	"testmig/internal/git"
	"testmig/internal/graph"
	"testmig/internal/ir"
	"testmig/internal/java"
	"testmig/internal/pipeline"
	"testmig/internal/report"
	"testmig/internal/storage"
	"testmig/internal/symbols"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "testmig",
		Short: "Compiler from UI test sources to framework-agnostic IR",
	}
	dbPath string
)

var (
	compileOut        string
	compileProject    string
	compileLanguage   string
	compileNoSnapshot bool

	diffProject string

	reportOut     string
	reportSince   string
	reportProject string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the snapshot database (SQLite); defaults to the configured snapshots path")

	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "IR output path (overrides config)")
	compileCmd.Flags().StringVarP(&compileProject, "project", "p", "", "Project name (overrides config)")
	compileCmd.Flags().StringVarP(&compileLanguage, "language", "l", "", "Source language (overrides config)")
	compileCmd.Flags().BoolVar(&compileNoSnapshot, "no-snapshot", false, "Skip storing the compiled document as a snapshot")

	diffCmd.Flags().StringVarP(&diffProject, "project", "p", "", "Project whose snapshots are compared when ids are omitted")

	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "docs/migration.md", "Report output path")
	reportCmd.Flags().StringVar(&reportSince, "since", "", "Git ref to diff the working tree against for impact analysis")
	reportCmd.Flags().StringVarP(&reportProject, "project", "p", "", "Project whose latest snapshot is reported")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(reportCmd)
}

// initStore opens the snapshot database, preferring the --db flag over the
// configured path.
func initStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	path := dbPath
	if path == "" {
		path = cfg.Snapshots.Path
	}
	return storage.NewSQLiteStore(path)
}

// projectOrFatal picks the project name from the flag, then the config, and
// aborts when neither names one.
func projectOrFatal(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Project.Name != "" {
		return cfg.Project.Name
	}
	log.Fatalf("No project configured; pass --project or set project.name in config.yaml")
	return ""
}

var compileCmd = &cobra.Command{
	Use:   "compile [path]",
	Short: "Crawl a source tree, compile it to IR, and snapshot the result",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load("config.yaml")
		if len(args) > 0 {
			cfg.Project.Root = args[0]
		}
		if compileProject != "" {
			cfg.Project.Name = compileProject
		}
		if compileLanguage != "" {
			cfg.Project.SourceLanguage = compileLanguage
		}
		if compileOut != "" {
			cfg.Output.Path = compileOut
		}

		root, err := filepath.Abs(cfg.Project.Root)
		if err != nil {
			log.Fatalf("Failed to resolve project root %s: %v", cfg.Project.Root, err)
		}
		if cfg.Project.Name == "" {
			cfg.Project.Name = filepath.Base(root)
		}

		fmt.Printf("🚀 Scanning %s for %s sources...\n", root, cfg.Project.SourceLanguage)
		cr, err := crawler.NewCrawler(cfg.Sources.Include, cfg.Sources.Exclude)
		if err != nil {
			log.Fatalf("Failed to compile source patterns: %v", err)
		}
		files, err := cr.Discover(root)
		if err != nil {
			log.Fatalf("Discovery failed: %v", err)
		}

		result, err := pipeline.NewCompile(cfg).Run(files)
		if err != nil {
			log.Fatalf("Compile failed: %v", err)
		}

		if compileNoSnapshot {
			return
		}
		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer store.Close()

		snap, err := store.SaveSnapshot(context.Background(), result.Document)
		if err != nil {
			log.Fatalf("Failed to store snapshot: %v", err)
		}
		fmt.Printf("💾 Snapshot %s stored (document hash %s).\n", snap.ID, snap.DocHash[:12])
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Parse one source file and print its canonical AST, symbols, and structural hashes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		tree, err := java.NewParser().ParseFile(path)
		if err != nil {
			log.Fatalf("Parse failed: %v", err)
		}

		hasher := ast.NewHasher()
		treeHash, err := hasher.HashTree(tree)
		if err != nil {
			log.Fatalf("Hashing failed: %v", err)
		}

		fmt.Printf("📄 %s (%s, %d nodes, tree hash %s)\n\n", tree.FilePath, tree.Language, tree.NodeCount(), treeHash[:12])

		fmt.Println("AST outline:")
		printOutline(tree.Root, 0, hasher)

		table := symbols.NewTable(tree)
		printSymbols(table)
	},
}

// printOutline renders the subtree depth-first with each node's structural
// hash prefix. Hashes are recomputed per node; inspect handles one file, so
// the quadratic walk stays cheap.
func printOutline(n *ast.Node, depth int, hasher *ast.Hasher) {
	hash, err := hasher.HashNode(n)
	if err != nil {
		log.Fatalf("Failed to hash node %s: %v", n.ID, err)
	}
	label := string(n.Type)
	if n.Name != "" {
		label += " " + n.Name
	}
	fmt.Printf("  %s%s [%s] %s\n", strings.Repeat("  ", depth), label, n.ID, hash[:12])
	for _, child := range n.Children {
		printOutline(child, depth+1, hasher)
	}
}

func printSymbols(table *symbols.Table) {
	syms := table.Symbols()
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\nSymbols (%d):\n", len(names))
	for _, name := range names {
		node := syms[name]
		fmt.Printf("  %s -> %s (%s)\n", name, node.ID, node.Type)
	}

	targets := table.MethodTargets()
	methods := make([]string, 0, len(targets))
	for method := range targets {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	fmt.Printf("\nMethod targets (%d):\n", len(methods))
	for _, method := range methods {
		fmt.Printf("  %s -> %s\n", method, targets[method])
	}
}

var diffCmd = &cobra.Command{
	Use:   "diff [old-id] [new-id]",
	Short: "Compare two stored snapshots entity by entity",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := config.Load("config.yaml")

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer store.Close()

		var oldSnap, newSnap storage.Snapshot
		var oldDoc, newDoc *ir.Document
		switch len(args) {
		case 2:
			oldSnap, oldDoc, err = store.LoadSnapshot(ctx, args[0])
			if err != nil {
				log.Fatalf("Failed to load old snapshot: %v", err)
			}
			newSnap, newDoc, err = store.LoadSnapshot(ctx, args[1])
			if err != nil {
				log.Fatalf("Failed to load new snapshot: %v", err)
			}
		case 1:
			oldSnap, oldDoc, err = store.LoadSnapshot(ctx, args[0])
			if err != nil {
				log.Fatalf("Failed to load old snapshot: %v", err)
			}
			newSnap, newDoc, err = store.LoadLatest(ctx, projectOrFatal(diffProject, cfg))
			if err != nil {
				log.Fatalf("Failed to load latest snapshot: %v", err)
			}
		default:
			project := projectOrFatal(diffProject, cfg)
			snaps, err := store.ListSnapshots(ctx, project)
			if err != nil {
				log.Fatalf("Failed to list snapshots: %v", err)
			}
			if len(snaps) < 2 {
				log.Fatalf("Need two snapshots of %s to diff, found %d", project, len(snaps))
			}
			// ListSnapshots returns newest first.
			newSnap, oldSnap = snaps[0], snaps[1]
			_, oldDoc, err = store.LoadSnapshot(ctx, oldSnap.ID)
			if err != nil {
				log.Fatalf("Failed to load old snapshot: %v", err)
			}
			_, newDoc, err = store.LoadSnapshot(ctx, newSnap.ID)
			if err != nil {
				log.Fatalf("Failed to load new snapshot: %v", err)
			}
		}

		fmt.Printf("🔍 Comparing %s (old) with %s (new)...\n", oldSnap.ID, newSnap.ID)
		diff, err := analysis.DiffDocuments(oldDoc, newDoc)
		if err != nil {
			log.Fatalf("Diff failed: %v", err)
		}

		if diff.Empty() {
			fmt.Println("✅ No entity changes between the two snapshots.")
			return
		}
		printChanges("Added", diff.Added)
		printChanges("Removed", diff.Removed)
		printChanges("Changed", diff.Changed)
	},
}

func printChanges(label string, changes []analysis.EntityChange) {
	if len(changes) == 0 {
		return
	}
	fmt.Printf("📊 %s (%d):\n", label, len(changes))
	for _, c := range changes {
		fmt.Printf("  -> %s %s (%s)\n", c.Kind, c.Name, c.ID)
	}
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the Markdown migration report from the latest snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg := config.Load("config.yaml")

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		defer store.Close()

		project := projectOrFatal(reportProject, cfg)
		snap, doc, err := store.LoadLatest(ctx, project)
		if err != nil {
			log.Fatalf("Failed to load latest snapshot: %v", err)
		}
		fmt.Printf("📂 Reporting on snapshot %s of %s.\n", snap.ID, snap.Project)

		refs := graph.FromDocument(doc)
		gen := report.NewGenerator()

		var content string
		if reportSince != "" {
			changed, err := git.ChangedFiles(cfg.Project.Root, reportSince)
			if err != nil {
				log.Fatalf("Failed to read git changes: %v", err)
			}
			fmt.Printf("🔍 %d files changed since %s.\n", len(changed), reportSince)
			impact := analysis.NewAnalyzer(doc, refs).AnalyzeImpact(changed)
			content = gen.RenderWithImpact(doc, refs, reportSince, impact)
		} else {
			content = gen.Render(doc, refs)
		}

		if err := report.WriteFile(reportOut, content); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		fmt.Printf("✅ Report written to %s.\n", reportOut)
	},
}
