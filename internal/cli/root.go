package cli

import (
	"context"
	"flag"

	"github.com/born-ml/opset/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BuildInfo is injected via ldflags at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// options is the state shared by all commands of one invocation.
type options struct {
	build      BuildInfo
	configPath string
	v          *viper.Viper
	cfg        config.Config
	printer    *message.Printer
}

// flagKeys binds command flags to configuration keys.
var flagKeys = map[string]string{
	"opset":   config.KeyTargetOpset,
	"strict":  config.KeyStrict,
	"workers": config.KeyWorkers,
}

// NewRootCommand builds the command tree. Go flags registered on goFlags, such
// as the klog flags, become persistent flags of the root command.
func NewRootCommand(info BuildInfo, goFlags *flag.FlagSet) *cobra.Command {
	o := &options{
		build:   info,
		v:       config.New(),
		printer: message.NewPrinter(language.English),
	}

	root := &cobra.Command{
		Use:   "opset",
		Short: "Inspect operator descriptors and infer graph shapes",
		Long: `opset manages the operator registry used by the model optimizer: it lists
registered operators, shows their backend attributes per opset version, and runs
shape inference over ONNX models to produce IR documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default $HOME/.opset/config.yaml)")
	root.PersistentFlags().StringSlice("manifest", nil, "extension manifest to load (repeatable)")
	if goFlags != nil {
		root.PersistentFlags().AddGoFlagSet(goFlags)
	}

	root.AddCommand(
		newOpsCmd(o),
		newDescribeCmd(o),
		newInferCmd(o),
		newManifestCmd(o),
		newConfigCmd(o),
		newVersionCmd(o),
	)
	return root
}

// loadConfig binds the flags of cmd to their keys and resolves the config.
// The config commands only read the file, so they work on files that do not
// exist yet or fail to decode.
func (o *options) loadConfig(cmd *cobra.Command) error {
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		return config.Read(o.v, o.configPath)
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := o.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(o.v, o.configPath)
	if err != nil {
		return err
	}
	// --manifest extends the configured list instead of replacing it.
	extra, err := cmd.Flags().GetStringSlice("manifest")
	if err != nil {
		return err
	}
	cfg.Manifests = append(cfg.Manifests, extra...)
	o.cfg = cfg
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context, info BuildInfo, goFlags *flag.FlagSet) error {
	return NewRootCommand(info, goFlags).ExecuteContext(ctx)
}
