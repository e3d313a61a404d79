package cliproduct

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/browser"
	"github.com/urfave/cli/v3"

	"github.com/stockctl/stockctl/api"
)

// ErrProductIDRequired is returned when a subcommand needs a product ID
// argument and none was given.
var ErrProductIDRequired = errors.New("product id required")

// FormRunner launches the interactive product form and returns the completed
// form, or ok=false when the user aborted. Wired to the tui package in main;
// nil disables interactive mode.
type FormRunner func(ctx context.Context, initial *api.ProductForm) (form *api.ProductForm, ok bool, err error)

// Config assembles the product command suite's collaborators.
type Config struct {
	Client *api.Client

	// RunForm powers `create`/`update` when no field flags are given.
	RunForm FormRunner

	// Stdin is the source for confirmation prompts. Defaults to os.Stdin.
	Stdin io.Reader

	// OpenURL opens a URL in the user's browser. Defaults to browser.OpenURL.
	OpenURL func(url string) error
}

func (c *Config) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Config) openURL(url string) error {
	if c.OpenURL != nil {
		return c.OpenURL(url)
	}
	return browser.OpenURL(url)
}

// Commands builds the "product" parent command.
func Commands(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "manage the product catalog",
		Commands: []*cli.Command{
			listCommand(cfg),
			getCommand(cfg),
			createCommand(cfg),
			updateCommand(cfg),
			deleteCommand(cfg),
			openCommand(cfg),
		},
	}
}

func listCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list all products",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "suppress the header row",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			products, err := cfg.Client.ListProducts(ctx)
			if err != nil {
				return presentError(cmd, err)
			}
			return RenderTable(cmd.Writer, products, cmd.Bool("no-header"))
		},
	}
}

func getCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show one product",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			product, err := cfg.Client.GetProduct(ctx, id)
			if err != nil {
				return presentError(cmd, err)
			}
			return RenderDetail(cmd.Writer, product)
		},
	}
}

func fieldFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "product name",
		},
		&cli.FloatFlag{
			Name:  "price",
			Usage: "product price",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "product description",
		},
		&cli.StringSliceFlag{
			Name:  "color",
			Usage: "color tag (repeatable; order preserved, duplicates dropped)",
		},
		&cli.StringSliceFlag{
			Name:  "image",
			Usage: "image file path (repeatable; replaces all existing images on update)",
		},
	}
}

func createCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create a product (interactive form when no field flags are given)",
		Flags: fieldFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			form, cleanup, err := resolveForm(ctx, cfg, cmd, nil)
			if err != nil || form == nil {
				return err
			}
			defer cleanup()

			created, err := cfg.Client.CreateProduct(ctx, form)
			if err != nil {
				return presentError(cmd, err)
			}
			_, _ = fmt.Fprintf(cmd.Writer, "Created product %s.\n", created.ID)
			return nil
		},
	}
}

func updateCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "update a product (interactive form when no field flags are given)",
		ArgsUsage: "<id>",
		Flags:     fieldFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}

			// Pre-populate from the current record so untouched fields
			// survive the round trip.
			existing, err := cfg.Client.GetProduct(ctx, id)
			if err != nil {
				return presentError(cmd, err)
			}
			initial := &api.ProductForm{
				Name:        existing.Name,
				Price:       existing.Price,
				Description: existing.Description,
				Colors:      api.NewColorTagSet(existing.Colors...),
			}

			form, cleanup, err := resolveForm(ctx, cfg, cmd, initial)
			if err != nil || form == nil {
				return err
			}
			defer cleanup()

			updated, err := cfg.Client.UpdateProduct(ctx, id, form)
			if err != nil {
				return presentError(cmd, err)
			}
			_, _ = fmt.Fprintf(cmd.Writer, "Updated product %s.\n", updated.ID)
			return nil
		},
	}
}

func deleteCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a product",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "skip the confirmation prompt",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}

			if !cmd.Bool("yes") {
				ok, err := confirm(cfg.stdin(), cmd.Writer, fmt.Sprintf("Delete product %s? [y/N] ", id))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.Writer, "Aborted.")
					return nil
				}
			}

			if err := cfg.Client.DeleteProduct(ctx, id); err != nil {
				return presentError(cmd, err)
			}
			_, _ = fmt.Fprintf(cmd.Writer, "Deleted product %s.\n", id)
			return nil
		},
	}
}

func openCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "open a product image in the browser",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "index",
				Usage: "which image to open (1-based)",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			product, err := cfg.Client.GetProduct(ctx, id)
			if err != nil {
				return presentError(cmd, err)
			}
			if len(product.ImageURLs) == 0 {
				return fmt.Errorf("product %s has no images", id)
			}

			idx := int(cmd.Int("index"))
			if idx < 1 || idx > len(product.ImageURLs) {
				return fmt.Errorf("image index %d out of range (product has %d)", idx, len(product.ImageURLs))
			}

			// Image URLs come back relative to the API base.
			url := strings.TrimSuffix(cfg.Client.BaseURL(), "/") + "/" + product.ImageURLs[idx-1]
			return cfg.openURL(url)
		},
	}
}

// resolveForm builds a ProductForm from flags, or hands off to the
// interactive form when no field flag is set. The cleanup func closes any
// opened image files; it is non-nil whenever form is.
func resolveForm(ctx context.Context, cfg *Config, cmd *cli.Command, initial *api.ProductForm) (*api.ProductForm, func(), error) {
	if !anyFieldFlagSet(cmd) {
		if cfg.RunForm == nil {
			return nil, nil, errors.New("no field flags given and interactive mode unavailable")
		}
		form, ok, err := cfg.RunForm(ctx, initial)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.Writer, "Aborted.")
			return nil, nil, nil
		}
		return form, func() {}, nil
	}

	form := initial
	if form == nil {
		form = &api.ProductForm{Colors: api.NewColorTagSet()}
	}
	if cmd.IsSet("name") {
		form.Name = cmd.String("name")
	}
	if cmd.IsSet("price") {
		form.Price = cmd.Float("price")
	}
	if cmd.IsSet("description") {
		form.Description = cmd.String("description")
	}
	if cmd.IsSet("color") {
		form.Colors = api.NewColorTagSet(cmd.StringSlice("color")...)
	}

	cleanup := func() {}
	if paths := cmd.StringSlice("image"); len(paths) > 0 {
		images, closeAll, err := openImages(paths)
		if err != nil {
			return nil, nil, err
		}
		form.Images = images
		cleanup = closeAll
	}
	return form, cleanup, nil
}

func anyFieldFlagSet(cmd *cli.Command) bool {
	for _, name := range []string{"name", "price", "description", "color", "image"} {
		if cmd.IsSet(name) {
			return true
		}
	}
	return false
}

// openImages opens the given paths in order. On any failure every file
// opened so far is closed before returning.
func openImages(paths []string) ([]api.ImageFile, func(), error) {
	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	images := make([]api.ImageFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open image %q: %w", p, err)
		}
		files = append(files, f)
		images = append(images, api.ImageFile{Name: filepath.Base(p), Data: f})
	}
	return images, closeAll, nil
}

func requireID(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", ErrProductIDRequired
	}
	return id, nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// presentError translates the client's typed failures into user-facing
// output. Validation messages print one per line, inline, exactly as the
// server ordered them; everything else passes through with its own message.
func presentError(cmd *cli.Command, err error) error {
	var validation *api.ValidationError
	if errors.As(err, &validation) {
		for _, msg := range validation.Messages {
			_, _ = fmt.Fprintf(cmd.ErrWriter, "  - %s\n", msg)
		}
		return errors.New("the server rejected the submission, fix the fields above and resubmit")
	}
	return err
}
