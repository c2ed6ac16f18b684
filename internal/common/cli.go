package common

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/config"
	"github.com/dtnitsch/seo-tagger/internal/logging"
	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/ingest"
	"github.com/dtnitsch/seo-tagger/pkg/tagger"
)

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (default $" + config.PathEnv + ")",
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "Directory for generated documents (overrides output.dir)",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Run history database path (overrides database.path)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug output",
		},
		&cli.BoolFlag{
			Name:  "no-ai",
			Usage: "Always use the rule-based strategy",
		},
	}
}

// Bootstrap loads configuration for a command and wires the App. Errors are
// already wrapped for urfave/cli.
func Bootstrap(c *cli.Context, opts ...Option) (*App, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitInfra)
	}
	if dir := c.String("output-dir"); dir != "" {
		cfg.Output.Dir = dir
	}
	if path := c.String("db"); path != "" {
		cfg.Database.Path = path
	}

	logger := logging.New(c.App.ErrWriter, cfg.Logging.Level, cfg.Logging.Format, c.Bool("quiet"), c.Bool("verbose"))
	if c.Bool("no-ai") {
		opts = append(opts, WithoutAI())
	}

	app, err := NewApp(cfg, logger, opts...)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitInfra)
	}
	return app, nil
}

// OverrideFlags are the per-document override flags. title and date only
// make sense for a single draft.
func OverrideFlags(single bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "author", Usage: "Author override"},
		&cli.StringFlag{Name: "category", Usage: "Category override"},
		&cli.StringFlag{Name: "audience", Usage: "Target audience override"},
	}
	if single {
		flags = append([]cli.Flag{&cli.StringFlag{Name: "title", Usage: "Title override"}}, flags...)
		flags = append(flags, &cli.StringFlag{Name: "date", Usage: "Publication date override (YYYY-MM-DD)"})
	}
	return flags
}

// OverridesFromFlags collects the override flags the user actually set.
// A flag set to an empty string is kept so validation can reject it.
func OverridesFromFlags(c *cli.Context) (models.Overrides, error) {
	var o models.Overrides
	set := func(name string) *string {
		if !c.IsSet(name) {
			return nil
		}
		return models.StringPtr(c.String(name))
	}
	o.Title = set("title")
	o.Author = set("author")
	o.Category = set("category")
	o.Audience = set("audience")

	if c.IsSet("date") {
		d, err := ingest.ParseDate(c.String("date"))
		if err != nil {
			return models.Overrides{}, &tagger.OverrideError{Field: "date", Reason: "must be YYYY-MM-DD or RFC 3339"}
		}
		o.Date = &d
	}
	return o, nil
}

// Since parses a --since value: a duration back from now ("24h") or a date.
func Since(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}
	return ingest.ParseDate(value)
}
