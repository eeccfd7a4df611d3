// @title         portfolio-service API
// @version       1.0
// @description   Сервис разбора резюме: извлечение профиля и оценка через LLM (Ollama), проверка и сохранение портфолио владельца.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Resume ingestion and portfolio service",
	Long:  "Extracts structured profiles from resumes with a local LLM, validates them against the owning identity and keeps one authoritative portfolio per identity.",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if configFile != "" {
			return os.Setenv("CONFIG_FILE", configFile)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file (env vars override its values)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
