package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/client"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/config"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/discovery"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/observability"
)

const usage = `usage: shopctl [-addr URL | -consul HOST:PORT] <command> [flags]

commands:
  add-item  -order N -product N -qty N
  get-order -order N
  seed
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "shopctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("shopctl", flag.ContinueOnError)
	addr := global.String("addr", "http://localhost:8080", "shop service base URL")
	consulAddr := global.String("consul", "", "resolve the service through this Consul agent")
	timeout := global.Duration("timeout", 10*time.Second, "request timeout")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return fmt.Errorf("missing command")
	}

	baseURL := *addr
	if *consulAddr != "" {
		logger, err := observability.NewLogger("warn", "shopctl")
		if err != nil {
			return err
		}
		consul, err := discovery.NewConsulClient(*consulAddr, logger)
		if err != nil {
			return err
		}
		if baseURL, err = consul.GetServiceURL(config.ServiceName); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	shop := client.NewShopClient(baseURL)
	cmd, rest := global.Arg(0), global.Args()[1:]

	switch cmd {
	case "add-item":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		orderID := fs.Int64("order", 0, "order id")
		productID := fs.Int64("product", 0, "product id")
		qty := fs.Int("qty", 0, "units to add")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		item, err := shop.AddItem(ctx, *orderID, *productID, *qty)
		if err != nil {
			return err
		}
		return printJSON(item)

	case "get-order":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		orderID := fs.Int64("order", 0, "order id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		order, err := shop.GetOrder(ctx, *orderID)
		if err != nil {
			return err
		}
		return printJSON(order)

	case "seed":
		seeded, err := shop.Seed(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]bool{"seeded": seeded})

	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
