package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mlehane/shelfscout/internal/books"
	"github.com/mlehane/shelfscout/internal/cli"
	"github.com/mlehane/shelfscout/internal/common"
	"github.com/mlehane/shelfscout/internal/config"
	"github.com/mlehane/shelfscout/internal/engine"
	"github.com/mlehane/shelfscout/internal/llm"
	"github.com/mlehane/shelfscout/internal/model"
	"github.com/mlehane/shelfscout/internal/service"
)

const maxImageBytes = 20 << 20

func scanCmd() *cobra.Command {
	var (
		noLLM bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Scan a bookshelf photo and rank the books against your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], noLLM, limit)
		},
	}

	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip LLM scoring and rank by rules only")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum recommendations to print")
	return cmd
}

func runScan(cmd *cobra.Command, imagePath string, noLLM bool, limit int) error {
	ctx := cmd.Context()

	image, err := os.ReadFile(config.ExpandPath(imagePath))
	if err != nil {
		return common.NewUserError("failed to read image", err)
	}
	if len(image) > maxImageBytes {
		return common.NewUserError(fmt.Sprintf("image exceeds %dMB limit", maxImageBytes>>20), nil)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	userID := config.UserID()
	library, err := store.ListLibrary(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	orchestrator := createOrchestrator()

	catalog, err := books.NewClient(ctx, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}
	resolver := books.NewResolver(catalog, slog.Default())

	fmt.Println(cli.FormatTitle("Scanning shelf photo"))
	candidates, err := scanShelf(ctx, orchestrator, resolver, image)
	if err != nil {
		return err
	}
	if candidates == nil {
		return nil
	}

	cache := engine.NewScoreCache(0, 0)
	defer cache.Close()
	eng := engine.New(orchestrator, cache, !noLLM, slog.Default())

	result := eng.RankCandidates(ctx, candidates, library, userID)

	printScanResult(result, limit)
	return nil
}

// scanShelf runs extraction and catalog resolution. A nil, nil return means
// the scan legitimately found nothing to rank.
func scanShelf(ctx context.Context, extractor service.TitleExtractor, resolver service.CandidateResolver, image []byte) ([]model.CandidateBook, error) {
	titles, err := extractor.ExtractTitles(ctx, image)
	if err != nil {
		// Total extraction failure degrades to an empty scan rather than
		// aborting; the shelf simply yields nothing to rank.
		var allFailed *llm.AllProvidersFailedError
		if errors.As(err, &allFailed) {
			slog.Warn("extraction failed on every provider, returning empty scan", "error", err)
			fmt.Println(cli.FormatWarning("No provider could read the photo"))
			return nil, nil
		}
		return nil, err
	}
	if len(titles) == 0 {
		fmt.Println(cli.FormatWarning("No book spines detected in the photo"))
		return nil, nil
	}
	fmt.Println(cli.FormatInfo(fmt.Sprintf("Detected %d titles", len(titles))))

	bar := progressbar.NewOptions(len(titles),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Matching against catalog...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	candidates := resolver.ResolveAll(ctx, titles, func() {
		_ = bar.Add(1)
	})
	if len(candidates) == 0 {
		fmt.Println(cli.FormatWarning("No detected titles matched the catalog"))
		return nil, nil
	}
	return candidates, nil
}

func printScanResult(result model.ScanResult, limit int) {
	owned := 0
	for _, c := range result.Detected {
		if c.InLibrary {
			owned++
		}
	}
	if owned > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("%d of %d matched books are already in your library", owned, len(result.Detected))))
	}

	if len(result.Recommendations) == 0 {
		fmt.Println(cli.FormatWarning("Nothing new on this shelf"))
		return
	}

	fmt.Println(cli.FormatTitle("Recommendations"))
	for i, rec := range result.Recommendations {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Println(cli.FormatRecommendation(i+1, rec))
	}
}
