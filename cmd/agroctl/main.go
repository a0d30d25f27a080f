// Command agroctl is the operator tool for the crop advisor: it scores
// readings from the command line, validates crop catalogs and aggregates
// district source data.
package main

import (
	"os"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agroctl",
		Short:        "Crop recommendation operator tool",
		SilenceUsage: true,
	}

	root.AddCommand(recommendCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(aggregateCmd())
	return root
}

func recommendCmd() *cobra.Command {
	var (
		opts        recommendOptions
		ph, oc      float64
		n, p, k     float64
		temp, rain  float64
		humidity    float64
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank crops for a set of soil and weather readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			readings := map[string]*float64{
				"ph": &ph, "organic-carbon": &oc,
				"nitrogen": &n, "phosphorus": &p, "potassium": &k,
				"temperature": &temp, "rainfall": &rain, "humidity": &humidity,
			}
			opts.readings = make(map[string]float64)
			for name, v := range readings {
				if cmd.Flags().Changed(name) {
					opts.readings[name] = *v
				}
			}
			catalog, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			return runRecommend(cmd.OutOrStdout(), catalog, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.season, "season", "", "cropping season (Kharif, Rabi, Zaid)")
	f.StringVar(&opts.state, "state", "cli", "state name")
	f.StringVar(&opts.district, "district", "cli", "district name")
	f.Float64Var(&ph, "ph", 0, "soil pH")
	f.Float64Var(&oc, "organic-carbon", 0, "soil organic carbon (%)")
	f.Float64Var(&n, "nitrogen", 0, "soil nitrogen (kg/ha)")
	f.Float64Var(&p, "phosphorus", 0, "soil phosphorus (kg/ha)")
	f.Float64Var(&k, "potassium", 0, "soil potassium (kg/ha)")
	f.Float64Var(&temp, "temperature", 0, "average temperature (°C)")
	f.Float64Var(&rain, "rainfall", 0, "average rainfall (mm)")
	f.Float64Var(&humidity, "humidity", 0, "average humidity (%)")
	f.BoolVar(&opts.asJSON, "json", false, "print the response body as JSON")
	f.StringVar(&catalogPath, "catalog", "", "YAML crop catalog (default: built-in)")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func catalogCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and print a crop catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := loadCatalog(path)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), catalog)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "YAML crop catalog (default: built-in)")
	return cmd
}

func aggregateCmd() *cobra.Command {
	var opts aggregateOptions

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Merge soil, weather and crop-yield feeds into district records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAggregate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.soilPath, "soil", "", "soil feed JSON file")
	f.StringVar(&opts.weatherPath, "weather", "", "weather feed JSON file")
	f.StringVar(&opts.cropsPath, "crops", "", "crop-yield feed JSON file")
	f.StringVarP(&opts.outPath, "out", "o", "", "write merged records to this file (default: stdout)")
	f.StringVar(&opts.mongoURI, "mongo-uri", "", "upsert merged records into MongoDB at this URI")
	f.StringVar(&opts.mongoDB, "mongo-db", sharedcfg.EnvOrDefault("MONGO_DATABASE", "agri_advisor"), "MongoDB database name")
	return cmd
}
