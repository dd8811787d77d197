package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"idlc/pkg/ast"
	"idlc/pkg/config"
	"idlc/pkg/diagnostics"
	"idlc/pkg/idlc"

	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile IDL source files into a resolved project graph",
	Long: `Compile tokenizes, alias-replaces, parses, and type-resolves one or
more IDL source files into a single project graph, following the source
list order: configuration-declared includes, then the files given here,
then configuration-declared sources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		showDuplicates, _ := cmd.Flags().GetBool("show-duplicates")
		diagnosticsEndpoint, _ := cmd.Flags().GetString("diagnostics-endpoint")

		doc := &config.Document{}
		if configPath != "" {
			raw, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to read config %s: %w", configPath, err)
			}
			doc, err = config.ReadConfig(raw)
			if err != nil {
				return err
			}
		}

		var diagnosticsSvc *diagnostics.Service
		if diagnosticsEndpoint != "" {
			diagnosticsSvc = diagnostics.NewService(&diagnostics.Config{
				Endpoint: diagnosticsEndpoint,
				Timeout:  10 * time.Second,
			})
		}

		compiler := idlc.Create(doc, diagnosticsSvc)
		if err := compiler.Process(args); err != nil {
			return err
		}

		printProjectSummary(compiler)
		if showDuplicates {
			for _, path := range compiler.Duplicates {
				fmt.Printf("duplicate (skipped): %s\n", path)
			}
		}
		return nil
	},
}

func init() {
	compileCmd.Flags().StringP("config", "c", "", "Project configuration document (YAML or JSON)")
	compileCmd.Flags().Bool("show-duplicates", false, "List source files skipped as content duplicates")
	compileCmd.Flags().String("diagnostics-endpoint", "", "Forward parse/duplicate diagnostics to this HTTP collector")
}

func printProjectSummary(compiler *idlc.Compiler) {
	fmt.Printf("Compiled project\n")
	fmt.Printf("=================\n\n")
	printNamespaceSummary(compiler.Project.Global, 0)
	fmt.Printf("\nDuplicate files skipped: %d\n", len(compiler.Duplicates))
}

func printNamespaceSummary(ns *ast.Namespace, depth int) {
	indent := strings.Repeat("  ", depth)
	label := ns.Name()
	if label == "" {
		label = "(global)"
	}
	fmt.Printf("%snamespace %s\n", indent, label)

	for name := range ns.Typedefs {
		fmt.Printf("%s  typedef %s\n", indent, name)
	}
	for name := range ns.Enums {
		fmt.Printf("%s  enum %s\n", indent, name)
	}
	for name, s := range ns.Structs {
		kind := "struct"
		if s.Kind == ast.KindInterface {
			kind = "interface"
		}
		fmt.Printf("%s  %s %s\n", indent, kind, name)
	}
	for _, child := range ns.Namespaces {
		printNamespaceSummary(child, depth+1)
	}
}
