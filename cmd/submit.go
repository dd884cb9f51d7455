package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/raushankrgupta/virtual-try-on/controller"
	"github.com/raushankrgupta/virtual-try-on/models"
	"github.com/raushankrgupta/virtual-try-on/scrapers"
	"github.com/raushankrgupta/virtual-try-on/storage"
	"github.com/raushankrgupta/virtual-try-on/utils"
	"github.com/spf13/cobra"
)

type submitOptions struct {
	person       string
	cloth        string
	clothPage    string
	instructions string
	selection    models.Selection
	asJSON       bool
}

func newSubmitCmd(a *app) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send one try-on request from the terminal",
		Long: `Loads a person image and a garment image (local paths or http(s) URLs), applies the
same checks as the web form and sends them to the try-on backend.`,
		Example: `  tryon submit --person me.jpg --cloth shirt.png --instructions "casual fit"

  tryon submit --person me.jpg --cloth https://shop.example.com/jacket.jpg \
    --model-type full --gender female --garment-type jacket --style streetwear --json

  tryon submit --person me.jpg --cloth-page https://www.amazon.in/dp/B0EXAMPLE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.person, "person", "", "Person image path or URL")
	cmd.Flags().StringVar(&opts.cloth, "cloth", "", "Garment image path or URL")
	cmd.Flags().StringVar(&opts.clothPage, "cloth-page", "", "Product page URL to take the garment image from")
	cmd.MarkFlagsMutuallyExclusive("cloth", "cloth-page")
	cmd.Flags().StringVar(&opts.instructions, "instructions", "", "Free-text instructions for the backend")
	cmd.Flags().StringVar(&opts.selection.ModelType, "model-type", "", "top, bottom or full")
	cmd.Flags().StringVar(&opts.selection.Gender, "gender", "", "male, female or unisex")
	cmd.Flags().StringVar(&opts.selection.GarmentType, "garment-type", "", "shirt, pants, jacket, dress or tshirt")
	cmd.Flags().StringVar(&opts.selection.Style, "style", "", "casual, formal, streetwear, traditional or sports")
	cmd.Flags().Bool("dark", false, "Also save the dark-mode preference")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runSubmit(cmd *cobra.Command, a *app, opts *submitOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	store, err := storage.New(ctx, a.cfg.Prefs)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl := controller.New(ctx, utils.NewTryOnClient(a.cfg.BackendURL, a.cfg.BackendTimeout), controller.Options{
		Store:  store,
		Notify: func(n models.Notification) { printNotification(errOut, n) },
	})

	if cmd.Flags().Changed("dark") {
		dark, _ := cmd.Flags().GetBool("dark")
		if err := ctrl.ToggleTheme(ctx, dark); err != nil {
			return fmt.Errorf("failed to save theme preference: %w", err)
		}
	}

	if opts.clothPage != "" {
		img, err := scrapers.ResolveProductImage(ctx, opts.clothPage)
		if err != nil {
			return err
		}
		opts.cloth = img
	}

	var sources []string
	if opts.person != "" {
		sources = append(sources, opts.person)
	}
	if opts.cloth != "" {
		sources = append(sources, opts.cloth)
	}
	files, err := utils.LoadImages(ctx, sources)
	if err != nil {
		return err
	}

	// an omitted image is left empty so Submit reports it like the web form does
	next := 0
	if opts.person != "" {
		if _, err := ctrl.Person().SelectAndWait(ctx, files[next]); err != nil {
			return err
		}
		next++
	}
	if opts.cloth != "" {
		if _, err := ctrl.Cloth().SelectAndWait(ctx, files[next]); err != nil {
			return err
		}
	}

	ctrl.SetInstructions(opts.instructions)
	fields := []models.SelectionField{models.FieldModelType, models.FieldGender, models.FieldGarmentType, models.FieldStyle}
	for _, field := range fields {
		if err := ctrl.SetSelection(field, opts.selection.Get(field)); err != nil {
			return err
		}
	}

	result, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(out, "%s\n", result.Text)
	fmt.Fprintf(out, "id: %d  at: %s  image: %d bytes\n", result.ID, result.Timestamp, len(result.ResultImage))
	return nil
}

func printNotification(w io.Writer, n models.Notification) {
	marker := map[models.Level]string{
		models.LevelSuccess: "✓",
		models.LevelError:   "✗",
		models.LevelInfo:    "•",
	}[n.Level]
	fmt.Fprintf(w, "%s %s\n", marker, n.Message)
}
