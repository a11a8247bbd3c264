package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wb-ledger-bot/internal/advert"
	"wb-ledger-bot/internal/config"
	"wb-ledger-bot/internal/logger"
	"wb-ledger-bot/internal/report"
	"wb-ledger-bot/internal/report/reportobs"
	"wb-ledger-bot/internal/sheet"
	"wb-ledger-bot/internal/trace"
	"wb-ledger-bot/internal/userdb"
	"wb-ledger-bot/internal/wbapi"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		fromStr    = flag.String("from", "", "report window start (YYYY-MM-DD)")
		toStr      = flag.String("to", "", "report window end (YYYY-MM-DD), defaults to --from")
		outPath    = flag.String("out", "", "output xlsx path (default report_<from>_<to>.xlsx)")
		userID     = flag.String("user", "", "registered user whose key to use (default WB_API_KEY env)")
	)
	flag.Parse()

	must(logger.Init())
	must(trace.Init())

	cfg, err := loadConfig(*configPath)
	must(err)

	loc, err := cfg.Location()
	must(err)

	from, to, err := parseWindow(*fromStr, *toStr, loc)
	must(err)

	apiKey, err := resolveKey(cfg, *userID)
	must(err)

	out := *outPath
	if out == "" {
		out = fmt.Sprintf("report_%s_%s.xlsx",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Println("Shutting down...")
		cancel()
	}()

	wb, err := wbapi.NewClient(wbapi.Params{Config: cfg, APIKey: apiKey})
	must(err)
	ads, err := advert.NewClient(advert.Params{Config: cfg, APIKey: apiKey})
	must(err)

	orchestrator := reportobs.Wrap(report.New(report.Params{
		Seller:  wb,
		Orders:  wb,
		Details: wb,
		Storage: wb,
		AdSpend: ads,
	}))

	result, err := orchestrator.Run(ctx, from, to)
	must(err)

	location, err := sheet.NewExcelSink(out).Write(ctx, result)
	must(err)

	log.Println("Report written:", location)
	must(trace.Shutdown(context.Background()))
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func parseWindow(fromStr, toStr string, loc *time.Location) (time.Time, time.Time, error) {
	if fromStr == "" {
		// Default window: yesterday.
		y := time.Now().In(loc).AddDate(0, 0, -1)
		return y, y, nil
	}
	from, err := time.ParseInLocation("2006-01-02", fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	if toStr == "" {
		return from, from, nil
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s precedes --from %s", toStr, fromStr)
	}
	return from, to, nil
}

// resolveKey prefers a registered user's stored key and falls back to
// the WB_API_KEY environment variable.
func resolveKey(cfg *config.Config, userID string) (string, error) {
	if userID != "" {
		store, err := userdb.Open(cfg.UserDB.Path)
		if err != nil {
			return "", err
		}
		u, err := store.Get(userID)
		if err != nil {
			return "", err
		}
		return u.APIKey, nil
	}
	if key := os.Getenv("WB_API_KEY"); key != "" {
		return key, nil
	}
	return "", errors.New("no API key: pass --user or set WB_API_KEY")
}
