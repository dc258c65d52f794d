package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gedkit/gedpdf/internal/display"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gedpdf <input.ged> <output.pdf>",
	Short: "Convert a GEDCOM family record file into a readable PDF",
	Long: `Gedpdf reads a GEDCOM genealogy file, repairs the malformed line
numbering and stray markup such files carry in practice, and renders the
individuals, families, and supporting records as a paginated PDF.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.ErrorMsg(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.gedpdf/config.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not determine home directory:", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".gedpdf"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Silence the warning — config.yaml is optional
	}
}
