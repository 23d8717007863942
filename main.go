package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli"

	"gfascope/gfa"
	"gfascope/internal/config"
	"gfascope/internal/history"
	applog "gfascope/log"
)

const version = "0.4.0"

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "terminal browser for pangenome variation graphs"
	app.Version = version
	app.ArgsUsage = "[graph.gfa]"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "layout, l",
			Usage: "layout TSV with 2D node positions (default: probe next to the graph)",
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "render frame rate, overrides the config file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log verbosity: debug, info, notice, warning, error",
		},
		cli.BoolFlag{
			Name:  "no-history",
			Usage: "run without the recent-files and saved-views database",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if fps := c.Int("fps"); fps > 0 {
		cfg.UI.FPS = fps
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := applog.FileSink(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()
	applog.SetLevel(applog.ParseLevel(cfg.Log.Level))
	logger := applog.New(appName)

	applyAccent(cfg.UI.Accent)

	graphPath := c.Args().First()
	if graphPath != "" {
		if abs, err := filepath.Abs(graphPath); err == nil {
			graphPath = abs
		}
	}

	g, lay, layoutPath, err := loadGraph(graphPath, c.String("layout"))
	if err != nil {
		return err
	}
	if graphPath != "" {
		logger.Infof("loaded %s: %d nodes, %d edges, %d paths",
			graphPath, g.NodeCount(), g.EdgeCount(), g.PathCount())
	}

	var hist *history.Store
	if !c.Bool("no-history") {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			// Missing history degrades the pickers, nothing else.
			logger.Warningf("history unavailable: %v", err)
			hist = nil
		}
	}
	if hist != nil && graphPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		if err := hist.TouchRecent(ctx, graphPath); err != nil {
			logger.Warningf("history: %v", err)
		}
		cancel()
	}

	m := newModel(cfg, logger, graphPath, layoutPath, g, lay, hist)
	m.startAnimator()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.shutdown()
	}
	return err
}

// loadGraph parses the graph and resolves its layout. With no graph on the
// command line the app starts on an empty graph; the recent-files picker is
// the way in from there.
func loadGraph(path, layoutPath string) (*gfa.Graph, *gfa.Layout, string, error) {
	if path == "" {
		g, _ := gfa.Parse(strings.NewReader(""))
		return g, gfa.SpineLayout(g), "", nil
	}
	g, err := gfa.ParseFile(path)
	if err != nil {
		return nil, nil, "", err
	}
	if layoutPath == "" {
		layoutPath = probeLayout(path)
	}
	if layoutPath == "" {
		return g, gfa.SpineLayout(g), "", nil
	}
	lay, err := gfa.LoadLayoutTSV(layoutPath, g)
	if err != nil {
		return nil, nil, "", err
	}
	return g, lay, layoutPath, nil
}

// probeLayout looks for a layout file next to the graph: graph.gfa.layout
// first, then graph.layout.
func probeLayout(path string) string {
	candidates := []string{
		path + ".layout",
		strings.TrimSuffix(path, filepath.Ext(path)) + ".layout",
	}
	for _, cand := range candidates {
		if fi, err := os.Stat(cand); err == nil && !fi.IsDir() {
			return cand
		}
	}
	return ""
}
