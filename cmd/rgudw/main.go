package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jgivc/rgudw/internal/app"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "%s (%s)\n", app.Name, app.Version)
	fmt.Fprintf(out, "Usage: %s [options] [path/to/games.yml | ID]\n", app.Name)
	fmt.Fprintln(out, "  options:")
	flag.PrintDefaults()
}

func main() {
	cfgFileName := flag.String("c", "config.yml", "Path to config file")
	showVersion := flag.Bool("v", false, "Print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (%s)\n", app.Name, app.Version)

		return
	}

	if flag.NArg() != 1 {
		flag.Usage()

		return
	}

	report, err := app.New(*cfgFileName).Run(context.Background(), flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if report.UpToDate() {
		fmt.Println("Everything is already downloaded :)")
	} else {
		fmt.Println("Download(s) is/are complete")
	}

	if report.Failed > 0 {
		fmt.Printf("%d download(s) failed, run again to retry\n", report.Failed)
	}
}
