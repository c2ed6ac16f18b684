package serve

import (
	"net"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
)

// Command returns the serve command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve POST /generate, GET /healthz and GET /metrics over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from config, :8080)",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Also save generated documents to the output directory",
			},
		},
		Action: ServeAction,
	}
}

func ServeAction(c *cli.Context) error {
	app, err := common.Bootstrap(c)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := app.Config.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitInfra)
	}

	h := NewHandler(app, c.Bool("write"))
	srv := app.Config.Server
	if err := Run(c.Context, ln, h.Routes(), srv.ReadTimeout, srv.WriteTimeout, app.Logger.With("component", "serve")); err != nil {
		return cli.Exit(err.Error(), common.ExitInfra)
	}
	return nil
}
