package watch

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
)

// Command returns the watch command.
func Command() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "dir",
			Aliases:  []string{"d"},
			Usage:    "Directory of drafts to watch (recursive)",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "ext",
			Value: cli.NewStringSlice(DefaultExtensions...),
			Usage: "Draft extensions to react to",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Value: DefaultDebounce,
			Usage: "Quiet period before a changed draft is regenerated",
		},
	}
	return &cli.Command{
		Name:   "watch",
		Usage:  "Regenerate front matter whenever a draft is created or saved",
		Flags:  append(flags, common.OverrideFlags(false)...),
		Action: WatchAction,
	}
}

func WatchAction(c *cli.Context) error {
	overrides, err := common.OverridesFromFlags(c)
	if err != nil {
		return common.Fail(err)
	}

	app, err := common.Bootstrap(c)
	if err != nil {
		return err
	}
	defer app.Close()

	handle := func(ctx context.Context, path, hash string) error {
		doc, err := app.Ingester.File(path)
		if err != nil {
			return err
		}
		doc.Overrides = overrides.Merge(doc.Overrides)
		_, err = app.Publish(ctx, doc, common.PublishOptions{Hash: hash})
		return err
	}

	w, err := New(Config{
		Dir:        c.String("dir"),
		Extensions: c.StringSlice("ext"),
		Debounce:   c.Duration("debounce"),
		Ignore:     []string{app.Storage.Dir},
	}, handle, app.Logger)
	if err != nil {
		return common.Fail(err)
	}
	return w.Run(c.Context)
}
