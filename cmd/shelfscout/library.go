package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mlehane/shelfscout/internal/books"
	"github.com/mlehane/shelfscout/internal/cli"
	"github.com/mlehane/shelfscout/internal/config"
	"github.com/mlehane/shelfscout/internal/model"
)

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the books you own",
	}

	cmd.AddCommand(libraryAddCmd())
	cmd.AddCommand(libraryListCmd())
	cmd.AddCommand(libraryRemoveCmd())
	return cmd
}

func libraryAddCmd() *cobra.Command {
	var volumeID string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a book to your library by title or volume ID",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			title := strings.Join(args, " ")
			if title == "" && volumeID == "" {
				return fmt.Errorf("provide a title or --id")
			}

			catalog, err := books.NewClient(ctx, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create catalog client: %w", err)
			}

			book, err := lookupBook(cmd, catalog, title, volumeID)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.UpsertBook(ctx, book); err != nil {
				return fmt.Errorf("failed to save book: %w", err)
			}
			if err := store.AddToLibrary(ctx, config.UserID(), book.GoogleBooksID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Added: " + cli.FormatBookLine(book)))
			return nil
		},
	}

	cmd.Flags().StringVar(&volumeID, "id", "", "Google Books volume ID")
	return cmd
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the books in your library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			library, err := store.ListLibrary(ctx, config.UserID())
			if err != nil {
				return fmt.Errorf("failed to list library: %w", err)
			}

			if len(library) == 0 {
				fmt.Println(cli.FormatInfo("Your library is empty"))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Your library (%d books)", len(library))))
			for _, book := range library {
				fmt.Println("  " + cli.FormatBookLine(book))
			}
			return nil
		},
	}
}

func libraryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <volume-id>",
		Short: "Remove a book from your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.RemoveFromLibrary(ctx, config.UserID(), args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Removed " + args[0]))
			return nil
		},
	}
}

func lookupBook(cmd *cobra.Command, catalog *books.Client, title, volumeID string) (model.Book, error) {
	ctx := cmd.Context()

	if volumeID != "" {
		return catalog.Get(ctx, volumeID)
	}

	found, ok, err := catalog.FuzzySearch(ctx, title, "")
	if err != nil {
		return model.Book{}, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if !ok {
		return model.Book{}, fmt.Errorf("no catalog match for %q", title)
	}
	return found, nil
}
