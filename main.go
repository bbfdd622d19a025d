package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"polysniper/client"
	"polysniper/config"
	"polysniper/engine"
	"polysniper/logger"
	"polysniper/market"
	"polysniper/order"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config_load_failed", "err", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cmdErr error
	switch os.Args[1] {
	case "buy":
		cmdErr = runTrade(ctx, cfg, log, order.Buy, os.Args[2:])
	case "sell":
		cmdErr = runTrade(ctx, cfg, log, order.Sell, os.Args[2:])
	case "balance":
		cmdErr = runBalance(ctx, cfg, log)
	case "markets":
		cmdErr = runMarkets(ctx, log, os.Args[2:])
	case "derive-key":
		cmdErr = runDeriveKey(ctx, cfg, log)
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		log.Error("command_failed", "cmd", os.Args[1], "err", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: polysniper <command> [flags]

commands:
  buy         place a buy order (-token or -slug/-outcome, -price, -size, -maker)
  sell        place a sell order (same flags as buy)
  balance     show available USDC collateral
  markets     list active markets (-tag, -limit) or look one up (-slug)
  derive-key  derive the L2 API credentials for the configured wallet`)
}

func buildEngine(cfg *config.Config, log logger.Logger) (engine.ExecutionEngine, error) {
	if cfg.EngineMode == "paper" {
		creds, err := cfg.Credentials()
		feeAddress := ""
		if err == nil {
			feeAddress = strings.ToLower(creds.FundingAddress().Hex())
		}
		return engine.NewPaperEngine(feeAddress, log), nil
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewLiveEngine(creds, cfg.DryRun, log)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

func runTrade(ctx context.Context, cfg *config.Config, log logger.Logger, side order.Side, args []string) error {
	fs := flag.NewFlagSet("trade", flag.ExitOnError)
	tokenID := fs.String("token", "", "clob token id")
	slug := fs.String("slug", "", "gamma market slug (alternative to -token)")
	outcome := fs.String("outcome", "yes", "outcome to trade when using -slug")
	price := fs.Float64("price", 0, "limit price in USDC")
	size := fs.Float64("size", 0, "size in shares")
	maker := fs.Bool("maker", false, "rest on the book instead of crossing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *price <= 0 || *size <= 0 {
		return fmt.Errorf("positive -price and -size are required")
	}

	token := *tokenID
	if token == "" {
		if *slug == "" {
			return fmt.Errorf("one of -token or -slug is required")
		}
		gm, err := client.NewGammaClient().GetMarketBySlug(ctx, *slug)
		if err != nil {
			return err
		}
		m, err := market.FromGamma(*gm)
		if err != nil {
			return err
		}
		if !m.Tradeable() {
			return fmt.Errorf("market %s is not accepting orders", m.Slug)
		}
		token, err = m.TokenFor(*outcome)
		if err != nil {
			return err
		}
		log.Info("market_resolved", "slug", m.Slug, "question", m.Question, "token", token)
	}

	eng, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}
	log.Info("engine_selected", "engine", eng.Name())

	if err := eng.Run(ctx); err != nil {
		return err
	}

	po, err := eng.PlaceOrder(ctx, engine.Request{
		TokenID: token,
		Side:    side,
		Price:   *price,
		Size:    *size,
		Maker:   *maker,
	})
	if err != nil {
		return err
	}

	log.Info("order_result",
		"order_id", po.ID,
		"filled", po.Filled,
		"filled_qty", po.FilledQty,
		"fill_price", po.FillPrice)

	if cfg.EngineMode == "paper" && *maker && !po.Filled {
		return watchPaperFill(ctx, eng, po, token, log)
	}
	return nil
}

// watchPaperFill feeds observed trades into the paper engine until the
// resting order fills or the command deadline passes.
func watchPaperFill(ctx context.Context, eng engine.ExecutionEngine, po engine.PendingOrder, token string, log logger.Logger) error {
	stream := client.NewMarketStream(log)
	if err := stream.Connect([]string{token}); err != nil {
		return err
	}
	defer stream.Close()

	done := make(chan struct{})
	stream.OnTrade(func(t client.LastTradePriceMessage) {
		side := order.Buy
		if t.Side == "SELL" {
			side = order.Sell
		}
		res := eng.CheckFill(po.ID, engine.IncomingOrder{
			TokenID: t.AssetID,
			Side:    side,
			Price:   float64(t.Price),
			Size:    float64(t.Size),
		})
		if res == nil {
			return
		}
		log.Info("paper_fill",
			"order_id", po.ID,
			"fill_qty", res.FilledQty,
			"total_filled", res.TotalFilled,
			"fill_price", res.FillPrice,
			"fully_filled", res.FullyFilled)
		if res.FullyFilled {
			close(done)
		}
	})

	errCh := make(chan error, 1)
	go func() { errCh <- stream.Listen(ctx) }()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Info("paper_watch_deadline", "order_id", po.ID)
		return nil
	case err := <-errCh:
		return err
	}
}

func runBalance(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eng, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}

	balance, err := eng.GetBalance(ctx)
	if err != nil {
		return err
	}
	log.Info("balance", "engine", eng.Name(), "usdc", balance)
	return nil
}

func runMarkets(ctx context.Context, log logger.Logger, args []string) error {
	fs := flag.NewFlagSet("markets", flag.ExitOnError)
	tagID := fs.Int("tag", 0, "gamma tag id filter")
	limit := fs.Int("limit", 20, "max markets to list")
	slug := fs.String("slug", "", "look up a single market by slug")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gamma := client.NewGammaClient()

	if *slug != "" {
		gm, err := gamma.GetMarketBySlug(ctx, *slug)
		if err != nil {
			return err
		}
		m, err := market.FromGamma(*gm)
		if err != nil {
			return err
		}
		log.Info("market",
			"slug", m.Slug,
			"question", m.Question,
			"yes_token", m.YesTokenID,
			"no_token", m.NoTokenID,
			"yes_price", m.YesPrice,
			"neg_risk", m.NegRisk,
			"tradeable", m.Tradeable())

		clob := client.NewClobClient()
		if bid, err := clob.GetPrice(ctx, m.YesTokenID, "BUY"); err == nil {
			ask, err := clob.GetPrice(ctx, m.YesTokenID, "SELL")
			if err == nil {
				log.Info("live_quote", "token", m.YesTokenID, "bid", bid, "ask", ask)
			}
		}
		return nil
	}

	raw, err := gamma.GetMarkets(ctx, *tagID, *limit)
	if err != nil {
		return err
	}
	for _, gm := range raw {
		m, err := market.FromGamma(gm)
		if err != nil {
			continue
		}
		log.Info("market", "slug", m.Slug, "question", m.Question, "yes_price", m.YesPrice)
	}
	return nil
}

func runDeriveKey(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.PrivateKey == "" {
		return fmt.Errorf("POLY_PRIVATE_KEY not set")
	}
	signer, err := order.NewPrivateKeySigner(cfg.PrivateKey)
	if err != nil {
		return err
	}

	creds, err := client.NewClobClient().CreateOrDeriveAPIKey(ctx, signer)
	if err != nil {
		return err
	}

	// credentials go to stdout only, never into the log stream
	log.Info("api_key_derived", "address", signer.Address().Hex())
	fmt.Printf("POLY_API_KEY=%s\nPOLY_API_SECRET=%s\nPOLY_PASSPHRASE=%s\n",
		creds.APIKey, creds.Secret, creds.Passphrase)
	return nil
}
