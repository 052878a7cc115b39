package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/gbdubs/flickr_search"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:    "Flickr Search",
		Usage:   "A CLI for searching the image hosting app flickr and downloading the results.",
		Version: "1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional YAML config file.",
			},
			&cli.StringFlag{
				Name:    "api_key",
				Aliases: []string{"a"},
				Usage:   "The Flickr API Key to charge usage to. Overrides config and FLICKR_API_KEY.",
			},
			&cli.StringFlag{
				Name:  "redis_addr",
				Usage: "cache search responses in redis at this address.",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log at debug level and dump the full output.",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			downloadCommand(),
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "print one page of search results.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "the term to search flickr for - can be one word or multiple words.",
			},
			&cli.IntFlag{
				Name:  "page",
				Value: 1,
				Usage: "1-based result page.",
			},
			&cli.IntFlag{
				Name:  "per_page",
				Value: 20,
				Usage: "number of results per page.",
			},
			&cli.BoolFlag{
				Name:  "urls",
				Usage: "print image URLs instead of the raw response.",
			},
		},
		Action: func(c *cli.Context) error {
			if c.String("query") == "" {
				return errors.New("query must be provided")
			}
			client, done, err := newClient(c)
			if err != nil {
				return err
			}
			defer done()
			if c.Bool("urls") {
				res := client.SearchImages(c.Context, c.String("query"), c.Int("page"), c.Int("per_page"))
				if res.Code != flickr_search.ResultOK {
					return fmt.Errorf("search failed (%s): %v", res.Code, res.Err)
				}
				for _, img := range res.Images {
					fmt.Printf("%s\t%s\t%s\n", img.ID, img.URLMedium, img.URLLarge)
				}
				return nil
			}
			rsp, err := client.Search(c.Context, c.String("query"), c.Int("page"), c.Int("per_page"))
			if err != nil {
				return err
			}
			fmt.Println(rsp)
			return nil
		},
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "download images matching a query into a directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "the term to search flickr for - can be one word or multiple words.",
			},
			&cli.StringFlag{
				Name:    "output_dir",
				Aliases: []string{"o"},
				Usage:   "where to place output, defaults to ./flickr_search/<query>.",
			},
			&cli.IntFlag{
				Name:    "number_of_images",
				Aliases: []string{"n"},
				Usage:   "the number of images to download.",
			},
			&cli.BoolFlag{
				Name:  "force_reload",
				Usage: "Whether to get additional images, even if the output directory already contains results.",
			},
			&cli.BoolFlag{
				Name:  "with_info",
				Usage: "fetch owner and license info and stamp it into each image's EXIF.",
			},
		},
		Action: func(c *cli.Context) error {
			if c.String("query") == "" {
				return errors.New("query must be provided")
			}
			client, done, err := newClient(c)
			if err != nil {
				return err
			}
			defer done()
			n := c.Int("number_of_images")
			if n <= 0 {
				n = 1
			}
			input := &flickr_search.Input{
				Client:         client,
				Query:          c.String("query"),
				NumberOfImages: n,
				OutputDir:      c.String("output_dir"),
				ForceReload:    c.Bool("force_reload"),
				WithInfo:       c.Bool("with_info"),
			}
			output, err := input.Execute(c.Context)
			if err != nil {
				return err
			}
			if c.Bool("verbose") {
				spew.Dump(*output)
				return nil
			}
			for _, f := range output.Files {
				fmt.Println(f.Path)
			}
			return nil
		},
	}
}

// newClient resolves config file, environment and global flags, in that
// order of increasing precedence.
func newClient(c *cli.Context) (*flickr_search.Client, func(), error) {
	cfg, err := flickr_search.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if v := c.String("api_key"); v != "" {
		cfg.APIKey = v
	}
	if v := c.String("redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}
	logger, err := flickr_search.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	client, closeFn, err := cfg.NewClient(logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return client, func() {
		if err := closeFn(); err != nil {
			logger.Warn("close cache", zap.Error(err))
		}
		_ = logger.Sync()
	}, nil
}
