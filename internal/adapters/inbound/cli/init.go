package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/flooring/internal/adapters/outbound/config"
	"github.com/abdidvp/flooring/internal/domain"
	"github.com/spf13/cobra"
)

const sampleTaxes = `State,StateName,TaxRate
CA,California,0.0725
FL,Florida,0.06
IL,Illinois,0.0625
KY,Kentucky,0.06
NY,New York,0.04
OH,Ohio,0.0575
PA,Pennsylvania,0.06
TX,Texas,0.0445
WA,Washington,0.065
`

const sampleProducts = `ProductType,CostPerSquareFoot,LaborCostPerSquareFoot
Bamboo,3.95,4.20
Carpet,2.25,2.10
Laminate,1.75,2.10
Linoleum,1.50,1.80
Stone,6.50,5.75
Tile,3.50,4.15
Wood,5.15,4.75
`

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		force      bool
		sampleData bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .flooring.yaml configuration file",
		Long:  "Create a .flooring.yaml with the default ledger layout. With --sample-data, also write starter tax and product tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(opts.dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := domain.DefaultConfig()
			if _, err := config.Write(absPath, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)

			if !sampleData {
				return nil
			}
			resolved := cfg.Resolve(absPath)
			tables := []struct{ path, content string }{
				{resolved.TaxesFile, sampleTaxes},
				{resolved.ProductsFile, sampleProducts},
			}
			for _, t := range tables {
				if err := writeSample(t.path, t.content, force); err != nil {
					return err
				}
				rel, _ := filepath.Rel(absPath, t.path)
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", rel)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&sampleData, "sample-data", false, "Also write sample tax and product tables")

	return cmd
}

func writeSample(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
