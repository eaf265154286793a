// Command gfxdump runs the batch export pipeline against the sample
// machine without opening a window.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"gfxscope/internal/app"
	"gfxscope/internal/sample"
	"gfxscope/internal/snapshot"
	"gfxscope/internal/version"
	"gfxscope/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cliApp := cli.NewApp()
	cliApp.Name = "gfxdump"
	cliApp.Usage = "headless palette/gfx/tilemap export"
	cliApp.Version = version.Version

	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "snapdir",
			Aliases: []string{"o"},
			Value:   app.DefaultSnapshotDir,
			Usage:   "directory exports are written to",
		},
		&cli.StringFlag{
			Name:  "template",
			Value: snapshot.DefaultTemplate,
			Usage: "snapshot name template (%g machine, %i number, %d_<dev> media)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log each failed instance",
		},
	}

	cliApp.Action = run

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger = log.Default()
	}

	m, err := sample.New()
	if err != nil {
		return err
	}

	p := prefs.New()
	p.SetString(app.PrefSnapshotTemplate, c.String("template"))

	session := app.NewSession(m, p, logger)
	defer session.Close()

	dir := c.String("snapdir")
	session.Export(snapshot.DirFiler{Root: dir})

	fmt.Printf("exported %s resources under %s\n", m.Name(), dir)
	return nil
}
