package main

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/clements/config"
)

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	log        *logrus.Entry
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "clementsctl",
		Short:         "Program rectangular MZI meshes",
		Long:          "Decompose unitaries into Clements mesh phases and encode them as DAC byte streams.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().String("log-level", "", "log level (overrides config)")
	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newDecomposeCmd(a), newEncodeCmd(a), newVerifyCmd(a))

	return root
}

// load reads configuration and builds the run-scoped logger.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.WithFields(logrus.Fields{
		"run_id":  uuid.New().String(),
		"command": cmd.Name(),
	})
	a.log.WithField("config", a.v.ConfigFileUsed()).Debug("configuration loaded")

	return nil
}
