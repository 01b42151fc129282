// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sheet2md CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sheet2md/internal/classify"
	"github.com/pdiddy/sheet2md/internal/manifest"
	"github.com/pdiddy/sheet2md/internal/pipeline"
	"github.com/pdiddy/sheet2md/internal/workbook"
	"github.com/pdiddy/sheet2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	maxChars     int
	extensions   []string
	rulesFile    string
	useManifest  bool
	manifestPath string
)

// rootCmd is the base command for the sheet2md CLI.
var rootCmd = &cobra.Command{
	Use:   "sheet2md [input-dir] [output-dir]",
	Short: "Convert spreadsheet workbooks into chunked Markdown documents",
	Long: `sheet2md scans a directory tree for spreadsheet files and renders every
worksheet as a Markdown table prefixed with YAML front matter. Oversized
documents are split into bounded-size chunks at heading and table-row
boundaries, producing flat files ready for a downstream indexing stage.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sheet2md.yaml or ~/.config/sheet2md/config.yaml)")
	rootCmd.Flags().IntVar(&maxChars, "max-chars", 0, "soft ceiling on chunk size in characters (default 8000)")
	rootCmd.Flags().StringSliceVar(&extensions, "ext", nil, "supported workbook extensions (default .xlsx,.xlsm,.xls)")
	rootCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file with doc-type classification rules")
	rootCmd.Flags().BoolVar(&useManifest, "manifest", false, "record emitted files in a SQLite manifest")
	rootCmd.Flags().StringVar(&manifestPath, "manifest-path", "", "manifest database path (default <output-dir>/manifest.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sheet2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sheet2md"))
		}
	}

	viper.SetEnvPrefix("SHEET2MD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputDir, outDir := args[0], args[1]
	if info, err := os.Stat(inputDir); err != nil {
		return fmt.Errorf("input directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", inputDir)
	}

	cfg := buildConfig()

	rules := classify.DefaultRules()
	if cfg.Classify.RulesFile != "" {
		loaded, err := classify.LoadRules(cfg.Classify.RulesFile)
		if err != nil {
			return err
		}
		rules = loaded
	}

	var rec pipeline.Recorder
	if cfg.Manifest.Enabled {
		path := cfg.Manifest.Path
		if path == "" {
			path = filepath.Join(outDir, "manifest.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating manifest directory: %w", err)
		}
		store, err := manifest.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		rec = store
	}

	p := pipeline.New(cfg, rules, openWorkbook, rec)
	result, err := p.Run(inputDir, outDir, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d workbook(s) failed", result.Failed)
	}
	return nil
}

func openWorkbook(path string) (pipeline.SheetSource, error) {
	return workbook.Open(path)
}

// buildConfig merges defaults, the viper config file/environment, and flags,
// in increasing precedence.
func buildConfig() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetInt("chunk.max_chars"); v > 0 {
		cfg.Chunk.MaxChars = v
	}
	if v := viper.GetStringSlice("extensions"); len(v) > 0 {
		cfg.Extensions = normalizeExts(v)
	}
	if v := viper.GetString("classify.rules_file"); v != "" {
		cfg.Classify.RulesFile = v
	}
	cfg.Manifest.Enabled = viper.GetBool("manifest.enabled")
	cfg.Manifest.Path = viper.GetString("manifest.path")

	if maxChars > 0 {
		cfg.Chunk.MaxChars = maxChars
	}
	if len(extensions) > 0 {
		cfg.Extensions = normalizeExts(extensions)
	}
	if rulesFile != "" {
		cfg.Classify.RulesFile = rulesFile
	}
	if useManifest {
		cfg.Manifest.Enabled = true
	}
	if manifestPath != "" {
		cfg.Manifest.Path = manifestPath
		cfg.Manifest.Enabled = true
	}
	return cfg
}

func normalizeExts(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[i] = e
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
