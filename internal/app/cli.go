package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"notify-triggers/internal/auth"
	"notify-triggers/internal/brokers/manager"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/config"
	"notify-triggers/internal/protocols/ical"
	"notify-triggers/internal/triggers"
	"notify-triggers/internal/triggers/examples"
	"notify-triggers/internal/triggers/preview"
)

// Version is reported by --version and at startup
const Version = "1.0.0"

type cli struct {
	envFile string
	config  *config.Config
	now     func() time.Time
}

// Execute runs the triggerd command line
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	c := &cli{now: now}

	root := &cobra.Command{
		Use:          "triggerd",
		Short:        "Validate, preview and hand off notification triggers",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.MustSync()
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "load environment variables from this file (default .env)")

	root.AddCommand(
		c.serveCommand(),
		c.validateCommand(),
		c.previewCommand(),
		c.icalCommand(),
		c.examplesCommand(),
		c.submitCommand(),
		c.tokenCommand(),
	)
	return root
}

func (c *cli) setup() error {
	if c.envFile != "" {
		config.LoadDotEnv(c.envFile)
	} else {
		config.LoadDotEnv()
	}

	if err := logging.InitGlobalLogger(); err != nil {
		return err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("Configuration validation failed", err)
		return err
	}
	c.config = cfg
	return nil
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the trigger HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runtime.GOMAXPROCS(runtime.NumCPU())

			logging.Info("Starting trigger service",
				logging.Field{Key: "cpus", Value: runtime.NumCPU()},
				logging.Field{Key: "version", Value: Version},
				logging.Field{Key: "port", Value: c.config.Port},
				logging.Field{Key: "broker", Value: c.config.BrokerType},
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Serve(ctx, c.config)
		},
	}
}

func (c *cli) validateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a trigger and print its normalized form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger, err := c.readTrigger(cmd, args)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), trigger, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")
	return cmd
}

func (c *cli) previewCommand() *cobra.Command {
	var (
		count int
		tz    string
	)

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "List the next fire times of a trigger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.location(tz)
			if err != nil {
				return err
			}

			if count <= 0 {
				count = c.config.PreviewCount
			}

			trigger, err := c.readTrigger(cmd, args)
			if err != nil {
				return err
			}

			times, err := preview.Next(trigger, c.now(), count, loc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range times {
				fmt.Fprintln(out, t.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, fmt.Sprintf("number of fire times, at most %d (default PREVIEW_COUNT)", preview.MaxCount))
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone for calendar fields (default TRIGGER_TIMEZONE)")
	return cmd
}

func (c *cli) icalCommand() *cobra.Command {
	var (
		summary string
		tz      string
	)

	cmd := &cobra.Command{
		Use:   "ical [file|-]",
		Short: "Render a trigger as an iCalendar document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.location(tz)
			if err != nil {
				return err
			}

			trigger, err := c.readTrigger(cmd, args)
			if err != nil {
				return err
			}

			data, err := ical.Encode(trigger, ical.Options{Summary: summary, Location: loc, Now: c.now})
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "event summary")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone for calendar fields (default TRIGGER_TIMEZONE)")
	return cmd
}

func (c *cli) examplesCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "examples [name]",
		Short: "Print the built-in example triggers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := examples.NewCatalog(c.now)
			out := cmd.OutOrStdout()

			if list {
				for _, name := range catalog.Names() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			if len(args) == 1 {
				example, err := catalog.Get(args[0])
				if err != nil {
					return err
				}
				return writeDocument(out, example, "json")
			}

			return writeDocument(out, catalog.All(), "json")
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "only print example names")
	return cmd
}

func (c *cli) submitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [file|-]",
		Short: "Validate a trigger and publish it to the configured broker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger, err := c.readTrigger(cmd, args)
			if err != nil {
				return err
			}

			publisher, err := manager.NewPublisher(c.config, nil)
			if err != nil {
				return err
			}
			if publisher != nil {
				defer publisher.Close()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			receipt, err := manager.Submit(ctx, publisher, trigger, map[string]string{"source": "cli"})
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), receipt, "json")
		},
	}
}

func (c *cli) tokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API bearer token with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.New(c.config).GenerateJWT(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	cmd.MarkFlagRequired("subject")
	return cmd
}

// readTrigger reads a JSON or YAML trigger from the named file, or stdin when
// no file or "-" is given, and validates it
func (c *cli) readTrigger(cmd *cobra.Command, args []string) (triggers.Trigger, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, errors.InternalError("failed to read trigger", err)
	}

	raw, err := triggers.Decode(data)
	if err != nil {
		return nil, err
	}

	validator := triggers.NewValidator(triggers.WithClock(c.now))
	return validator.Validate(raw)
}

func (c *cli) location(tz string) (*time.Location, error) {
	if tz == "" {
		return c.config.Location(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("unknown timezone %q", tz)).WithContext("field", "tz")
	}
	return loc, nil
}

func writeDocument(out io.Writer, v interface{}, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.InternalError("failed to encode YAML", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return errors.ValidationError(fmt.Sprintf("unsupported output format %q", format)).WithContext("field", "output")
	}
}
