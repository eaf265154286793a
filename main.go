// Command gfxscope opens the interactive graphics inspector over the
// built-in sample machine.
package main

import (
	"io"
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/urfave/cli/v2"

	"gfxscope/internal/app"
	"gfxscope/internal/sample"
	"gfxscope/internal/version"
	"gfxscope/ui/gfxwindow"
	"gfxscope/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cliApp := cli.NewApp()
	cliApp.Name = "gfxscope"
	cliApp.Usage = "interactive palette, graphics set and tilemap inspector"
	cliApp.Version = version.Version

	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "snapdir",
			Usage: "directory batch exports are written to",
		},
		&cli.StringFlag{
			Name:  "template",
			Usage: "snapshot name template (%g machine, %i number, %d_<dev> media)",
		},
		&cli.Float64Flag{
			Name:  "scale",
			Usage: "initial window scale factor",
			Value: 1.0,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log session activity",
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

	p := prefs.Load()
	if dir := c.String("snapdir"); dir != "" {
		p.SetString(app.PrefSnapshotDir, dir)
	}
	if tmpl := c.String("template"); tmpl != "" {
		p.SetString(app.PrefSnapshotTemplate, tmpl)
	}

	session := app.NewSession(m, p, logger)
	session.On(app.EventSnapshotDone, func(data interface{}) {
		logger.Printf("snapshots written under %v", data)
	})

	if bw := app.NewBuildWatcher(2 * time.Second); bw != nil {
		bw.OnUpdate(func() {
			session.Emit(app.EventNotification, "new build on disk, restart to load it")
		})
		bw.Start()
		defer bw.Stop()
	}

	scale := c.Float64("scale")
	if saved := p.Float(app.PrefWindowScale); saved > 0 && !c.IsSet("scale") {
		scale = saved
	}

	fa := fyneapp.New()
	win := gfxwindow.New(fa, session, scale)
	win.SetMaster()
	win.Run()
	fa.Run()

	p.SetFloat(app.PrefWindowScale, scale)
	return p.Save()
}
