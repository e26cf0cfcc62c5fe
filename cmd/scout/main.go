// Command scout runs registry operations from the command line: agent
// research passes, health revalidation, and contact enrichment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/scoutd/scout/internal/config"
	"github.com/scoutd/scout/internal/health"
	"github.com/scoutd/scout/internal/infrastructure"
	"github.com/scoutd/scout/internal/outreach"
	"github.com/scoutd/scout/internal/reconcile"
	"github.com/scoutd/scout/internal/research"
	"github.com/scoutd/scout/internal/venues"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("infrastructure init failed:", err)
	}
	defer infra.Database.Connection().Close()

	app := newApp(cfg, infra)
	ctx := context.Background()

	switch os.Args[1] {
	case "research":
		err = app.runResearch(ctx, os.Args[2:])
	case "healthcheck":
		err = app.runHealthcheck(ctx, os.Args[2:])
	case "enrich":
		err = app.runEnrich(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scout <research|healthcheck|enrich> [flags]")
	fmt.Fprintln(os.Stderr, "  research    run an agent research pass and reconcile findings")
	fmt.Fprintln(os.Stderr, "  healthcheck revalidate the stalest active venues")
	fmt.Fprintln(os.Stderr, "  enrich      fill contact and booking details for a venue")
}

type app struct {
	cfg       *config.Config
	venues    venues.System
	research  *research.Orchestrator
	reconcile *reconcile.Engine
	health    *health.Engine
	outreach  *outreach.Engine
}

func newApp(cfg *config.Config, infra *infrastructure.Infrastructure) *app {
	sys := venues.New(infra.Database.Connection(), infra.Logger, cfg.API.Pagination)

	return &app{
		cfg:       cfg,
		venues:    sys,
		research:  research.New(infra.Agent, sys, infra.Logger),
		reconcile: reconcile.New(sys, cfg.Research.MatchPolicy(), infra.Logger),
		health:    health.New(infra.Agent, sys, infra.Logger, cfg.Research.HealthConcurrency),
		outreach:  outreach.New(infra.Agent, sys, infra.Logger),
	}
}

func (a *app) runResearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("research", flag.ExitOnError)
	var (
		eventType    = fs.String("event", "", "Event type: dinner, happy_hour, or workshop")
		city         = fs.String("city", "", "Target city")
		neighborhood = fs.String("neighborhood", "", "Target neighborhood")
		budget       = fs.String("budget", "", "Budget guidance, e.g. $100-150 per person")
		guests       = fs.Int("guests", 0, "Expected guest count")
		vibe         = fs.String("vibe", "", "Desired atmosphere")
		audience     = fs.String("audience", "", "Who is attending")
		requirements = fs.String("requirements", "", "Hard requirements, e.g. private room, AV")
		keywords     = fs.String("keywords", "", "Extra search keywords")
		dates        = fs.String("dates", "", "Candidate date range")
		notes        = fs.String("notes", "", "Freeform notes for the agent")
		newOnly      = fs.Bool("new-only", false, "Steer the agent away from venues already registered")
	)
	fs.Parse(args)

	q := research.Query{
		EventType:    *eventType,
		City:         *city,
		Neighborhood: *neighborhood,
		Budget:       *budget,
		GuestCount:   *guests,
		Vibe:         *vibe,
		Audience:     *audience,
		Requirements: splitCSV(*requirements),
		Keywords:     splitCSV(*keywords),
		DateRange:    *dates,
		Notes:        *notes,
	}

	report, err := a.research.Research(ctx, q, research.Options{NewOnly: *newOnly})
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	outcome, err := a.reconcile.Reconcile(ctx, report.Candidates, q.Criteria())
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	return print(map[string]any{
		"report":  report,
		"outcome": outcome,
	})
}

func (a *app) runHealthcheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("healthcheck", flag.ExitOnError)
	limit := fs.Int("limit", a.cfg.Research.HealthLimit, "Number of stalest active venues to revalidate")
	fs.Parse(args)

	summary, err := a.health.Revalidate(ctx, *limit)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	return print(summary)
}

func (a *app) runEnrich(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	id := fs.String("id", "", "Venue ID to enrich")
	fs.Parse(args)

	venueID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("invalid venue id %q", *id)
	}

	report, err := a.outreach.Enrich(ctx, venueID)
	if err != nil {
		return fmt.Errorf("enrich failed: %w", err)
	}

	return print(report)
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func print(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
