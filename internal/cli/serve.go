package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/calderahq/caldera/internal/engine"
	"github.com/calderahq/caldera/internal/httpapi"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content API",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		addr := cfg.Listen
		if serveListen != "" {
			addr = serveListen
		}

		eng := engine.New(st, log)
		return httpapi.New(eng, log).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
