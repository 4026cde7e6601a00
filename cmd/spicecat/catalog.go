package main

import (
	"fmt"

	"github.com/Veraticus/spicecat/internal/catalog"
	"github.com/Veraticus/spicecat/internal/cli"
	"github.com/Veraticus/spicecat/internal/common"
	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the keyword pattern catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			data, err := cat.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file (default: the configured catalog)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat  *catalog.Catalog
				err  error
				name = "embedded default catalog"
			)
			if len(args) == 1 {
				name = args[0]
				cat, err = catalog.Load(args[0])
			} else {
				cfg, cfgErr := loadConfig()
				if cfgErr != nil {
					return cfgErr
				}
				if cfg.CatalogPath != "" {
					name = cfg.CatalogPath
				}
				cat, err = loadCatalog(cfg)
			}
			if err != nil {
				return common.NewUserError(fmt.Sprintf("%s is invalid", name), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s is valid: %d categories (version %d)", name, cat.Len(), cat.Version())))
			return nil
		},
	})

	return cmd
}
