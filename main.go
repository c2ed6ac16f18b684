package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/batch"
	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/internal/generate"
	"github.com/dtnitsch/seo-tagger/internal/history"
	"github.com/dtnitsch/seo-tagger/internal/serve"
	"github.com/dtnitsch/seo-tagger/internal/watch"
	"github.com/dtnitsch/seo-tagger/pkg/help"
)

var version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:    "seo-tagger",
		Usage:   "Generate SEO front matter for blog post drafts",
		Version: version,
		Flags:   common.GlobalFlags(),
		Commands: []*cli.Command{
			generate.Command(),
			batch.Command(),
			watch.Command(),
			serve.Command(),
			history.Command(),
			{
				Name:  "coldstart",
				Usage: "Print a quick-start guide as YAML",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.ColdstartYAML)
					return err
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(common.ExitCode(err))
	}
}
