package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mohammed-shakir/skyquery/internal/cache"
	"github.com/mohammed-shakir/skyquery/internal/cache/rediscache"
	"github.com/mohammed-shakir/skyquery/internal/config"
	"github.com/mohammed-shakir/skyquery/internal/coords"
	"github.com/mohammed-shakir/skyquery/internal/logger"
	"github.com/mohammed-shakir/skyquery/internal/observability"
	"github.com/mohammed-shakir/skyquery/internal/queryevents"
	"github.com/mohammed-shakir/skyquery/pkg/sdss"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		pos         = flag.String("coords", "", "coordinates, e.g. \"2.0235 14.8399\" or \"0h8m05.63s +14d50m23.3s\"")
		radius      = flag.Float64("radius", 0, "search radius in degrees (default 2 arcsec)")
		spectro     = flag.Bool("spectro", false, "join the spectroscopic catalog")
		sql         = flag.String("sql", "", "raw SQL query (overrides -coords)")
		release     = flag.Int("release", 0, "data release (default from DATA_RELEASE)")
		payloadOnly = flag.Bool("payload-only", false, "print the query payload without dispatching")
		fieldHelp   = flag.String("field-help", "", "describe a field or table instead of querying")
		listHelp    = flag.Bool("list-fields", false, "list all queryable tables and fields")
	)
	flag.Parse()

	cfg := config.FromEnv()
	if *release != 0 {
		cfg.Release = *release
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "skyquery",
	}, os.Stderr)
	appLog := logger.NewSlog(&zl)
	observability.ExposeBuildInfo(Version)

	var store cache.Store
	if cfg.CacheEnabled {
		if cfg.RedisAddr != "" {
			rc, err := rediscache.New(context.Background(), cfg.RedisAddr, cfg.CacheOpTimeout)
			if err != nil {
				appLog.Warn("redis unavailable, using in-process cache", "err", err)
				store = cache.NewMemory(cfg.CacheLRUSize)
			} else {
				defer func() { _ = rc.Close() }()
				store = rc
			}
		} else {
			store = cache.NewMemory(cfg.CacheLRUSize)
		}
	}

	var events *queryevents.Publisher
	if cfg.Events.Enabled {
		p, err := queryevents.NewPublisher(strings.Split(cfg.Events.Brokers, ","), cfg.Events.Topic, 0)
		if err != nil {
			appLog.Warn("query event publisher unavailable", "err", err)
		} else {
			defer func() { _ = p.Close() }()
			events = p
		}
	}

	client := sdss.New(sdss.Config{
		BaseURL:  cfg.SkyServerURL,
		SASURL:   cfg.SASURL,
		Release:  cfg.Release,
		Timeout:  cfg.QueryTimeout,
		Logger:   appLog,
		Cache:    store,
		CacheTTL: cfg.CacheTTL,
		Events:   events,
	})

	if *listHelp || *fieldHelp != "" {
		return printFieldHelp(client, *fieldHelp)
	}

	ctx := context.Background()
	opts := []sdss.Option{}
	if *radius > 0 {
		opts = append(opts, sdss.WithRadius(*radius))
	}
	if *spectro {
		opts = append(opts, sdss.WithSpectro(true))
	}
	if *payloadOnly {
		opts = append(opts, sdss.WithPayloadOnly())
	}

	var (
		res *sdss.QueryResult
		err error
	)
	switch {
	case *sql != "":
		res, err = client.QuerySQL(ctx, *sql, opts...)
	case *pos != "":
		c, perr := coords.Parse(*pos)
		if perr != nil {
			appLog.Error("bad coordinates", "err", perr)
			return 2
		}
		res, err = client.QueryRegion(ctx, coords.Single(c), opts...)
	default:
		flag.Usage()
		return 2
	}
	if err != nil {
		appLog.Error("query failed", "err", err)
		if sdss.IsTimeout(err) {
			return 3
		}
		return 1
	}

	if *payloadOnly {
		fmt.Printf("cmd=%s\nformat=%s\n", res.Payload.Cmd(), res.Payload.Format())
		return 0
	}

	printTable(res)
	appLog.Info("query done", "rows", len(res.Rows), "url", res.URL, "cached", res.Cached)
	return 0
}

func printFieldHelp(client *sdss.Client, hint string) int {
	help := client.FieldHelp(hint)
	if help.Tables != nil {
		for tab, fields := range help.Tables {
			fmt.Println(tab)
			for name, desc := range fields {
				fmt.Printf("  %-14s %s\n", name, desc)
			}
		}
		return 0
	}
	if !help.Found {
		fmt.Printf("%s: no such field\n", hint)
		return 0
	}
	fmt.Printf("%s: %s\n", help.Field, help.Description)
	return 0
}

func printTable(res *sdss.QueryResult) {
	names := res.Table.Names()
	fmt.Println(strings.Join(names, ","))
	for i := 0; i < res.Table.Len(); i++ {
		vals := make([]string, 0, len(names))
		for _, n := range names {
			v, _ := res.Table.String(n, i)
			vals = append(vals, v)
		}
		fmt.Println(strings.Join(vals, ","))
	}
}
