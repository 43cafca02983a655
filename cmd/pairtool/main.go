/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mikeb26/chesspair/internal"
	"github.com/mikeb26/chesspair/pairing"
	"github.com/mikeb26/chesspair/ratings"
	"github.com/mikeb26/chesspair/s3store"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"pair":      handlePair,
	"standings": handleStandings,
	"quads":     handleQuads,
	"enrich":    handleEnrich,
	"push":      handlePush,
	"pull":      handlePull,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// snapshotFlags registers the common snapshot-source flags on fs.
func snapshotFlags(fs *flag.FlagSet) (file *string, event *int64) {
	file = fs.String("file", "", "Snapshot JSON file to read")
	event = fs.Int64("event", 0, "Event id to pull from S3 instead of -file")
	return file, event
}

func loadSnapshot(ctx context.Context, file string, event int64) (*pairing.Snapshot, error) {
	var snap pairing.Snapshot
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read snapshot %v: %w", file, err)
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("unable to parse snapshot %v: %w", file, err)
		}
		return &snap, nil
	}
	if event == 0 {
		return nil, fmt.Errorf("either -file or -event must be specified")
	}

	store := s3store.New(ctx, internal.SnapshotBucket, true)
	if err := store.Init(); err != nil {
		return nil, err
	}
	if err := store.GetSnapshot(fmt.Sprintf("%d", event), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// nextRound infers the round to pair when -round is unset: one past the
// highest round present in the result history.
func nextRound(snap *pairing.Snapshot) int {
	maxRound := 0
	for _, res := range snap.Results {
		if res.Round > maxRound {
			maxRound = res.Round
		}
	}
	return maxRound + 1
}

func reportSectionErrors(secErrs map[string]error) {
	for sec, err := range secErrs {
		fmt.Fprintf(os.Stderr, "section %q: %v\n", sec, err)
	}
}

func handlePair(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pair", flag.ExitOnError)
	file, event := snapshotFlags(fs)
	round := fs.Int("round", 0, "Round to pair (default: next unplayed round)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, *file, *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *round == 0 {
		*round = nextRound(snap)
	}

	rp, secErrs := pairing.GeneratePairings(ctx, snap, *round)
	fmt.Printf("%v", pairing.BuildPairingsOutput(snap, rp))
	reportSectionErrors(secErrs)
	if len(secErrs) > 0 {
		os.Exit(1)
	}
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	file, event := snapshotFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, *file, *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	standings, secErrs := pairing.ComputeStandings(ctx, snap)
	fmt.Printf("%v", pairing.BuildStandingsOutput(snap, standings))
	reportSectionErrors(secErrs)
	if len(secErrs) > 0 {
		os.Exit(1)
	}
}

func handleQuads(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("quads", flag.ExitOnError)
	file, event := snapshotFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, *file, *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if snap.Config.Format != pairing.FormatQuad {
		fmt.Fprintf(os.Stderr, "event %v is a %v tournament, not quads\n",
			snap.EventID, snap.Config.Format)
		os.Exit(1)
	}

	var quads []pairing.Quad
	for _, name := range pairing.SectionNames(snap) {
		sec, err := pairing.NewSectionContext(snap, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "section %q: %v\n", name, err)
			continue
		}
		secQuads, err := pairing.BuildQuads(name, sec.Players)
		if err != nil {
			fmt.Fprintf(os.Stderr, "section %q: %v\n", name, err)
			continue
		}
		quads = append(quads, secQuads...)
	}
	fmt.Printf("%v", pairing.BuildQuadsOutput(snap, quads))
}

func handleEnrich(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	file, event := snapshotFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, *file, *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	client := ratings.NewClient(ctx)
	snap.Players = client.EnrichRoster(ctx, snap.Players)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to marshal snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", data)
}

func handlePush(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	file := fs.String("file", "", "Snapshot JSON file to upload")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, *file, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if snap.EventID == 0 {
		fmt.Fprintf(os.Stderr, "snapshot has no eventId; cannot determine key\n")
		os.Exit(1)
	}

	store := s3store.New(ctx, internal.SnapshotBucket, true)
	if err := store.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := store.PutSnapshot(fmt.Sprintf("%d", snap.EventID), snap); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("pushed snapshot for event %d\n", snap.EventID)
}

func handlePull(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	event := fs.Int64("event", 0, "Event id to download")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	snap, err := loadSnapshot(ctx, "", *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to marshal snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", data)
}
