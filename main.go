package main

import (
	"fmt"
	"log"
	"path/filepath"

	"testmig/internal/config"
	"testmig/internal/crawler"
	"testmig/internal/pipeline"
)

// main runs one full compile from config.yaml. The cmd/testmig binary carries
// the full command surface; this entry covers the plain "compile my project"
// path with zero arguments.
func main() {
	cfg := config.Load("config.yaml")

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

	if _, err := pipeline.NewCompile(cfg).Run(files); err != nil {
		log.Fatalf("Compile failed: %v", err)
	}
}
