package main

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/willbeason/fairness-datasets/pkg/ricci"
	"github.com/willbeason/fairness-datasets/pkg/tables"
	"os"
	"strings"
)

const (
	FlagConfig       = "config"
	FlagRaw          = "raw"
	FlagRepairedPath = "repaired-path"
	FlagReduced      = "reduced"
	FlagSensitive    = "sensitive"
	FlagRepaired     = "repaired"
	FlagQuiet        = "quiet"
	FlagOut          = "out"
	FlagFormat       = "format"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

func init() {
	registerFlags(&cmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagConfig, "", "YAML file with raw, repaired and reduced paths")
	cmd.Flags().String(FlagRaw, ricci.DefaultRawPath, "raw dataset")
	cmd.Flags().String(FlagRepairedPath, ricci.DefaultRepairedPath, "repaired dataset")
	cmd.Flags().String(FlagReduced, ricci.DefaultReducedPath, "where to write the reduced dataset")
	cmd.Flags().Int(FlagSensitive, ricci.DefaultConfiguration, "sensitive groups: 0 Race, 1 Race and Position, 2 Position")
	cmd.Flags().Bool(FlagRepaired, false, "return the repaired dataset")
	cmd.Flags().Bool(FlagQuiet, !ricci.DefaultVerbose, "suppress sample counts")
	cmd.Flags().String(FlagOut, "", "output file path (default: print the table)")
	cmd.Flags().String(FlagFormat, FormatCSV, "output format: csv or parquet")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "ricci-table",
	Short:   "loads the Ricci dataset and writes the cleaned table",
	Args:    cobra.NoArgs,
	Version: "0.1.0",
	RunE:    runE,
}

var ErrRicciTable = errors.New("building Ricci table")

func runE(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRicciTable, err)
	}

	sensitive, err := cmd.Flags().GetInt(FlagSensitive)
	if err != nil {
		return err
	}
	repaired, err := cmd.Flags().GetBool(FlagRepaired)
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool(FlagQuiet)
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString(FlagOut)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString(FlagFormat)
	if err != nil {
		return err
	}
	if format != FormatCSV && format != FormatParquet {
		return fmt.Errorf("%w: format must be one of [%s|%s], not %s", ErrRicciTable, FormatCSV, FormatParquet, format)
	}

	out := cmd.OutOrStdout()
	loader, err := ricci.New(!quiet, sensitive, ricci.WithConfig(cfg), ricci.WithOutput(out))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRicciTable, err)
	}

	if !quiet {
		_, _ = fmt.Fprintln(out, "-sensitive attributes:", strings.Join(loader.KnownSensitiveAttributes(), ","))
	}

	df, err := loader.Table(repaired)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRicciTable, err)
	}

	if outPath == "" {
		return ricci.WriteCSV(out, df)
	}

	switch format {
	case FormatParquet:
		source := cfg.RawPath
		if repaired {
			source = cfg.RepairedPath
		}
		meta, err := tables.Provenance(source)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRicciTable, err)
		}
		err = tables.WriteParquet(outPath, df, meta)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRicciTable, err)
		}
	default:
		outFile, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("%w: creating %q: %w", ErrRicciTable, outPath, err)
		}
		err = ricci.WriteCSV(outFile, df)
		if err != nil {
			_ = outFile.Close()
			return fmt.Errorf("%w: writing %q: %w", ErrRicciTable, outPath, err)
		}
		err = outFile.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// getConfig layers the config file, if any, under explicitly set path flags.
func getConfig(cmd *cobra.Command) (ricci.Config, error) {
	cfg := ricci.DefaultConfig()

	configPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return ricci.Config{}, err
	}
	if configPath != "" {
		cfg, err = ricci.LoadConfig(configPath)
		if err != nil {
			return ricci.Config{}, err
		}
	}

	for flag, dst := range map[string]*string{
		FlagRaw:          &cfg.RawPath,
		FlagRepairedPath: &cfg.RepairedPath,
		FlagReduced:      &cfg.ReducedPath,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		*dst, err = cmd.Flags().GetString(flag)
		if err != nil {
			return ricci.Config{}, err
		}
	}

	return cfg, nil
}
