package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/pkg/models"
)

func newResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage saved syllabus images and PDFs",
	}
	cmd.AddCommand(newResourceAddCmd(), newResourceListCmd(), newResourceDeleteCmd())
	return cmd
}

func newResourceAddCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Save an image or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			item, err := readResource(args[0], title)
			if err != nil {
				return err
			}
			item.ID = uuid.NewString()
			item.Date = a.store.Today().String()

			if err := database.NewJournalRepository(a.store).SaveInfoItem(cmd.Context(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %q as %s\n", item.Type, item.Title, item.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "title, defaults to the file name")
	return cmd
}

func newResourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved resources",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			items, err := database.NewJournalRepository(a.store).InfoItems(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No resources saved")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "%s  %s  %-5s  %s\n", item.ID, item.Date, item.Type, item.Title)
			}
			return nil
		}),
	}
}

func newResourceDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved resource",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := database.NewJournalRepository(a.store).DeleteInfoItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

// readResource loads path into a data URL. Only images and PDFs are accepted.
func readResource(path, title string) (models.InfoItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.InfoItem{}, fmt.Errorf("failed to read %s: %v", path, err)
	}

	mime := http.DetectContentType(data)
	var kind string
	switch {
	case mime == "application/pdf":
		kind = "pdf"
	case strings.HasPrefix(mime, "image/"):
		kind = "image"
	default:
		return models.InfoItem{}, fmt.Errorf("%s is %s, expected an image or a PDF", path, mime)
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return models.InfoItem{
		Title:   title,
		Type:    kind,
		DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
