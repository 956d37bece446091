package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

func main() {
	var (
		dir        = flag.String("dir", ".", "Directory to check")
		configPath = flag.String("config", ".codecheck.yml", "Path to configuration file")
	)
	flag.Parse()

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	checker, err := NewChecker(config)
	if err != nil {
		log.Fatalf("Error creating checker: %v", err)
	}

	fmt.Printf("🔍 Checking error codes in: %s\n", *dir)
	fmt.Printf("🚫 Excluding paths: %s\n", strings.Join(config.ExcludePaths, ", "))
	fmt.Println()

	if err := checker.CheckDirectory(*dir); err != nil {
		log.Fatalf("Error checking directory: %v", err)
	}
	checker.Finish()

	codes := checker.Codes()
	fmt.Printf("📦 %d codes declared\n", len(codes))

	var unused []*CodeInfo
	if config.CheckUnused {
		unused = checker.Unused()
		for _, info := range unused {
			fmt.Printf("  ⚠️  %s (%s) declared at %s:%d is never used\n", info.Var, info.Value, info.File, info.Line)
		}
	}

	violations := checker.Violations()
	for _, v := range violations {
		fmt.Printf("  ❌ [%s] %s:%d %s\n", v.Rule, v.File, v.Line, v.Message)
	}
	fmt.Println()

	if len(unused) > 0 && config.ExitOnUnused {
		fmt.Println("🚨 Exiting due to unused codes")
		os.Exit(1)
	}
	if len(violations) > 0 && config.ExitOnViolations {
		fmt.Println("🚨 Exiting due to violations")
		os.Exit(1)
	}
	fmt.Println("✅ All checks completed successfully!")
}
