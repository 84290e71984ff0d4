package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"brand-visual-studio/internal/form"
	"brand-visual-studio/internal/studio"
)

const defaultOutDir = "output"

type generator interface {
	Series(ctx context.Context, key string, in studio.GenerationInputs, r studio.Renderer) (studio.Result, error)
	Story(ctx context.Context, key string, req studio.StoryRequest, r studio.Renderer) (studio.Result, error)
}

type buildFunc func(ctx context.Context) (generator, error)

// cliOptions holds the raw flag values; they go through the same field
// mapping as the web form.
type cliOptions struct {
	values form.Values
	outDir string
}

func newRootCmd(build buildFunc) *cobra.Command {
	opts := &cliOptions{values: form.Values{}}

	root := &cobra.Command{
		Use:           "studio",
		Short:         "Generate brand illustration series and six-frame stories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.outDir, "out", "o", defaultOutDir, "directory the PNG files are written to")
	for _, f := range []struct{ name, usage string }{
		{form.FieldBrand, "brand name"},
		{form.FieldCharacter, "character description kept identical across images"},
		{form.FieldPalette, "palette as hex values, e.g. #112233"},
		{form.FieldSeason, "season or event"},
		{form.FieldScene, "scene description (series)"},
		{form.FieldTitleLocalized, "localized title, context only"},
		{form.FieldTitleDefault, "default-language title, context only"},
		{form.FieldNegative, "negative prompt appended to every image"},
		{form.FieldSeed, "integer seed; anything else is ignored"},
	} {
		pf.String(flagName(f.name), "", f.usage)
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		for _, name := range form.Fields {
			if fl := pf.Lookup(flagName(name)); fl != nil {
				opts.values[name] = fl.Value.String()
			}
		}
		return nil
	}

	root.AddCommand(newSeriesCmd(build, opts), newStoryCmd(build, opts))
	return root
}

func newSeriesCmd(build buildFunc, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "series",
		Short:   "Render the brief in square, wide and tall",
		Example: "  studio series --brand Luma --character 'a fox with blue eyes' --scene 'walking in rain'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := build(cmd.Context())
			if err != nil {
				return err
			}
			r := newFileRenderer(opts.outDir, cmd.OutOrStdout())
			_, err = st.Series(cmd.Context(), "cli", form.Inputs(opts.values.Get), r)
			return r.result(err)
		},
	}
}

func newStoryCmd(build buildFunc, opts *cliOptions) *cobra.Command {
	var aspect string

	cmd := &cobra.Command{
		Use:     "story <theme>",
		Short:   "Expand a theme into six frames sharing one brief",
		Example: "  studio story --character 'old keeper' --ar wide a lonely lighthouse keeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := build(cmd.Context())
			if err != nil {
				return err
			}
			req := form.StoryRequest(opts.values.Get)
			req.Theme = strings.Join(args, " ")
			req.AspectRatio = aspect

			r := newFileRenderer(opts.outDir, cmd.OutOrStdout())
			_, err = st.Story(cmd.Context(), "cli", req, r)
			return r.result(err)
		},
	}
	cmd.Flags().StringVar(&aspect, "ar", "square", "story aspect ratio: square, wide or tall")
	return cmd
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// fileRenderer writes each entry to <dir>/<filename> and reports progress.
type fileRenderer struct {
	dir     string
	out     io.Writer
	message string
	err     error
}

func newFileRenderer(dir string, out io.Writer) *fileRenderer {
	return &fileRenderer{dir: dir, out: out}
}

func (r *fileRenderer) Loading() {
	fmt.Fprintln(r.out, "generating...")
}

func (r *fileRenderer) Results(entries []studio.Entry) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.err = fmt.Errorf("create output dir: %w", err)
		return
	}
	for _, e := range entries {
		path := filepath.Join(r.dir, e.Filename)
		if err := os.WriteFile(path, e.Data, 0o644); err != nil {
			r.err = fmt.Errorf("write %s: %w", path, err)
			return
		}
		fmt.Fprintf(r.out, "%-10s %s\n", e.Label, path)
	}
}

func (r *fileRenderer) Failure(message string) {
	r.message = message
}

func (r *fileRenderer) result(err error) error {
	if err != nil {
		if r.message != "" {
			return errors.New(r.message)
		}
		return err
	}
	return r.err
}
