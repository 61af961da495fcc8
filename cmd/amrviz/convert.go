package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/martinemde/amrviz/amrgraph"
	"github.com/martinemde/amrviz/visnet"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.amr|-]",
	Short: "Convert AMR text to a graph",
	Long:  "Read AMR text from a file (or stdin) and print the node/edge graph.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml, vis, summary")
	convertCmd.Flags().Bool("lint", false, "Print lint diagnostics to stderr")
	convertCmd.Flags().Bool("strict", false, "Fail when lint reports errors")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, err := amrgraph.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	lint, _ := cmd.Flags().GetBool("lint")
	strict, _ := cmd.Flags().GetBool("strict")

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	if lint || strict {
		diags, lintErr := amrgraph.LintOrError(text)
		if lint {
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d)
			}
		}
		if strict && lintErr != nil {
			return lintErr
		}
	}

	graph := mode.Convert(text)
	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Converted (%s): %d nodes, %d edges\n", mode, len(graph.Nodes), len(graph.Edges))
	}
	return writeGraph(cmd.OutOrStdout(), graph, format)
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading AMR file: %w", err)
	}
	return string(data), nil
}

// writeGraph prints g in the given format.
func writeGraph(w io.Writer, g *amrgraph.Graph, format string) error {
	switch format {
	case "json":
		return writeJSON(w, g)
	case "yaml":
		return writeYAML(w, g)
	case "vis":
		return writeJSON(w, visnet.FromGraph(g, visnet.DefaultOptions()))
	case "summary":
		printGraphSummary(w, g)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml, vis or summary)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// printGraphSummary prints nodes and edges one per line.
func printGraphSummary(w io.Writer, g *amrgraph.Graph) {
	fmt.Fprintf(w, "Nodes: %d\n", len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Constant {
			fmt.Fprintf(w, "  [%d] %q (constant)\n", n.ID, n.Label)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s\n", n.ID, n.Label)
	}
	fmt.Fprintf(w, "Edges: %d\n", len(g.Edges))
	for _, e := range g.Edges {
		fmt.Fprintf(w, "  %d -%s-> %d\n", e.From, e.Label, e.To)
	}
}
