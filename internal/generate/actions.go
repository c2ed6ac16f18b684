package generate

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/models"
)

// Command returns the generate command.
func Command() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "Fetch the draft from a URL instead of a file",
		},
		&cli.BoolFlag{
			Name:  "stdout",
			Usage: "Print the document instead of writing <output-dir>/<slug>.md",
		},
	}
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate SEO front matter for one draft (file, --url or stdin)",
		ArgsUsage: "[FILE]",
		Flags:     append(flags, common.OverrideFlags(true)...),
		Action:    GenerateAction,
	}
}

func GenerateAction(c *cli.Context) error {
	overrides, err := common.OverridesFromFlags(c)
	if err != nil {
		return common.Fail(err)
	}
	if c.NArg() > 1 {
		return cli.Exit("generate takes at most one FILE; use batch for several drafts", common.ExitInput)
	}
	if c.NArg() == 1 && c.IsSet("url") {
		return cli.Exit("use either FILE or --url, not both", common.ExitInput)
	}

	app, err := common.Bootstrap(c)
	if err != nil {
		return err
	}
	defer app.Close()

	doc, err := load(c, app)
	if err != nil {
		app.Logger.Error("failed to load draft", "error", err)
		return common.Fail(err)
	}
	doc.Overrides = overrides.Merge(doc.Overrides)

	p, err := app.Publish(c.Context, doc, common.PublishOptions{Stdout: c.Bool("stdout")})
	if err != nil {
		app.Logger.Error("failed to generate document", "source", doc.Source, "error", err)
		return common.Fail(err)
	}

	if c.Bool("stdout") {
		_, err = c.App.Writer.Write(p.Output.Document)
		return err
	}
	fmt.Fprintln(c.App.Writer, p.Path)
	return nil
}

func load(c *cli.Context, app *common.App) (models.Document, error) {
	if raw := c.String("url"); raw != "" {
		u, err := common.ValidateURL(raw)
		if err != nil {
			return models.Document{}, err
		}
		return app.Ingester.URL(c.Context, u)
	}
	if path := c.Args().First(); path != "" && path != "-" {
		return app.Ingester.File(path)
	}
	return app.Ingester.Reader(c.App.Reader, "")
}
