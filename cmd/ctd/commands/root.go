package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agiangrant/ctdcore"
)

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	fontFace   string
	fontPath   string
}

func (o *globalOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "config file (default: nearest "+ctdcore.ConfigFile+")")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: text, json")
	fs.StringVar(&o.fontFace, "font", "", "built-in font face: goregular, gomono")
	fs.StringVar(&o.fontPath, "font-path", "", "TrueType/OpenType font file")
}

// load resolves the config file, applies flag overrides and validates the
// result.
func (o *globalOptions) load() (ctdcore.Config, string, error) {
	path := o.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ctdcore.Config{}, "", fmt.Errorf("cannot determine working directory: %w", err)
		}
		if path, err = ctdcore.FindConfig(cwd); err != nil {
			return ctdcore.Config{}, "", err
		}
	}

	cfg := ctdcore.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = ctdcore.LoadConfig(path); err != nil {
			return ctdcore.Config{}, "", err
		}
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.fontFace != "" {
		cfg.Font.Face = o.fontFace
	}
	if o.fontPath != "" {
		cfg.Font.Path = o.fontPath
	}
	if err := cfg.Validate(); err != nil {
		return ctdcore.Config{}, "", err
	}
	return cfg, path, nil
}

// NewRootCommand builds the ctd command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "ctd",
		Short: "Retained-mode widget engine tools",
		Long: `ctd - tools for the ctdcore retained widget engine.

Replays scripted input sessions, hosts widgets in the terminal and manages
the engine configuration file.`,
		Version:       ctdcore.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.addFlags(root.PersistentFlags())

	root.AddCommand(
		newReplayCommand(opts),
		newDemoCommand(opts),
		newConfigCommand(opts),
		newInitCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
