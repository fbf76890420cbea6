package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kailas-cloud/mediacat/internal/version"
	"github.com/kailas-cloud/mediacat/pkg/client"
)

// run opens the backend, calls fn and reports failures in the configured format.
func run(cmd *cobra.Command, o *RootOptions, fn func(ctx context.Context, b backend, f *OutputFormatter) error) error {
	f := o.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBackend(ctx, o)
	if err != nil {
		return f.Fail(err)
	}
	defer b.Close()

	if o.Server != "" {
		f.VerboseLog("using server %s", o.Server)
	} else {
		f.VerboseLog("using %s database %s", o.Driver, o.DB)
	}
	if err := fn(ctx, b, f); err != nil {
		return f.Fail(err)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid record id %q", arg))
	}
	return id, nil
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		q                    client.Query
		year                 int
		minRating, maxRating float64
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search, filter, sort and page records",
		Example: `  mediacatctl query --name naurto
  mediacatctl query --genre Action,Drama --min-rating 8 --sort rating --order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("year") {
				q.Year = &year
			}
			if flags.Changed("min-rating") {
				q.MinRating = &minRating
			}
			if flags.Changed("max-rating") {
				q.MaxRating = &maxRating
			}
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				page, err := b.Query(ctx, q)
				if err != nil {
					return err
				}
				return f.Success(page, func(w io.Writer) {
					writeRecordTable(w, page.Items)
					fmt.Fprintf(w, "\npage %d/%d, %d total\n",
						page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
				})
			})
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&q.Name, "name", "", "fuzzy name query")
	fl.StringSliceVar(&q.Tags, "tag", nil, "keep records with any of these tags")
	fl.StringSliceVar(&q.Genres, "genre", nil, "keep records with any of these genres")
	fl.StringVar(&q.Description, "description", "", "case-insensitive description substring")
	fl.IntVar(&year, "year", 0, "exact release year")
	fl.Float64Var(&minRating, "min-rating", 0, "inclusive lower rating bound")
	fl.Float64Var(&maxRating, "max-rating", 0, "inclusive upper rating bound")
	fl.StringVar(&q.Sort, "sort", "", "sort key (name|year|rating|id|created_at|updated_at)")
	fl.StringVar(&q.Order, "order", "", "sort order (asc|desc)")
	fl.IntVar(&q.Page, "page", 1, "1-based page number")
	fl.IntVar(&q.PageSize, "page-size", 10, "records per page")
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				rec, err := b.Get(ctx, id)
				if err != nil {
					return err
				}
				return f.Success(rec, func(w io.Writer) { writeRecordDetail(w, &rec) })
			})
		},
	}
}

// recordFlags binds the editable record fields as flags.
type recordFlags struct {
	file        string
	name        string
	description string
	year        int
	rating      float64
	genre       []string
	tag         []string
	img         string
}

func (r *recordFlags) bind(fl *pflag.FlagSet) {
	fl.StringVarP(&r.file, "file", "f", "", "read the record body as JSON from a file (- for stdin)")
	fl.StringVar(&r.name, "name", "", "title")
	fl.StringVar(&r.description, "description", "", "description")
	fl.IntVar(&r.year, "year", 0, "release year")
	fl.Float64Var(&r.rating, "rating", 0, "rating between 0 and 10")
	fl.StringSliceVar(&r.genre, "genre", nil, "genre labels")
	fl.StringSliceVar(&r.tag, "tag", nil, "tag labels")
	fl.StringVar(&r.img, "img", "", "cover image URL")
}

// patch builds a patch from the JSON body, then overlays explicitly set flags.
func (r *recordFlags) patch(cmd *cobra.Command) (client.RecordPatch, error) {
	var p client.RecordPatch
	if r.file != "" {
		if err := readJSON(cmd, r.file, &p); err != nil {
			return p, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("name") {
		p.Name = &r.name
	}
	if fl.Changed("description") {
		p.Description = &r.description
	}
	if fl.Changed("year") {
		p.Year = &r.year
	}
	if fl.Changed("rating") {
		p.Rating = &r.rating
	}
	if fl.Changed("genre") {
		p.Genre = &r.genre
	}
	if fl.Changed("tag") {
		p.Tag = &r.tag
	}
	if fl.Changed("img") {
		p.Img = &r.img
	}
	return p, nil
}

func (r *recordFlags) input(cmd *cobra.Command) (client.RecordInput, error) {
	p, err := r.patch(cmd)
	if err != nil {
		return client.RecordInput{}, err
	}
	var in client.RecordInput
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Year != nil {
		in.Year = *p.Year
	}
	if p.Rating != nil {
		in.Rating = *p.Rating
	}
	if p.Genre != nil {
		in.Genre = *p.Genre
	}
	if p.Tag != nil {
		in.Tag = *p.Tag
	}
	if p.Img != nil {
		in.Img = *p.Img
	}
	if p.Episodes != nil {
		in.Episodes = *p.Episodes
	}
	return in, nil
}

func readJSON(cmd *cobra.Command, path string, dst any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return WrapExitError(ExitCommandError, "open record file", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return WrapExitError(ExitCommandError, "decode record file", err)
	}
	return nil
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	rf := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a record",
		Example: `  mediacatctl create --name "Cowboy Bebop" --year 1998 --rating 8.9 --genre Sci-Fi --tag Popular
  mediacatctl create -f record.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := rf.input(cmd)
			if err != nil {
				return err
			}
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				rec, err := b.Create(ctx, in)
				if err != nil {
					return err
				}
				return f.Success(rec, func(w io.Writer) { fmt.Fprintf(w, "created record %d\n", rec.ID) })
			})
		},
	}
	rf.bind(cmd.Flags())
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	rf := &recordFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := rf.patch(cmd)
			if err != nil {
				return err
			}
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				rec, err := b.Update(ctx, id, p)
				if err != nil {
					return err
				}
				return f.Success(rec, func(w io.Writer) { writeRecordDetail(w, &rec) })
			})
		},
	}
	rf.bind(cmd.Flags())
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				if err := b.Delete(ctx, id); err != nil {
					return err
				}
				return f.Success(map[string]int64{"deleted": id}, func(w io.Writer) {
					fmt.Fprintf(w, "deleted record %d\n", id)
				})
			})
		},
	}
}

// NewHomeCommand creates the home command.
func NewHomeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the landing page sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				home, err := b.Home(ctx)
				if err != nil {
					return err
				}
				return f.Success(home, func(w io.Writer) {
					titles := make([]string, 0, len(home))
					for t := range home {
						titles = append(titles, t)
					}
					sort.Strings(titles)
					for _, t := range titles {
						sec := home[t]
						fmt.Fprintf(w, "%s (%d)\n", t, sec.Total)
						for _, c := range sec.Items {
							fmt.Fprintf(w, "  %d\t%s\n", c.ID, c.Name)
						}
					}
				})
			})
		},
	}
}

// NewUploadCommand creates the upload command.
func NewUploadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a cover image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			file, err := os.Open(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "open image", err)
			}
			defer file.Close()

			return run(cmd, rootOpts, func(ctx context.Context, b backend, f *OutputFormatter) error {
				u, err := b.Upload(ctx, filepath.Base(path), file)
				if err != nil {
					return err
				}
				return f.Success(map[string]string{"url": u}, func(w io.Writer) { fmt.Fprintln(w, u) })
			})
		},
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := rootOpts.formatter(cmd)
			info := map[string]string{"version": version.Version, "commit": version.Commit, "date": version.Date}
			return f.Success(info, func(w io.Writer) { fmt.Fprintln(w, "mediacatctl", version.String()) })
		},
	}
}
