package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hatlonely/tablex/cache"
	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/page"
	"github.com/hatlonely/tablex/render"
	"github.com/hatlonely/tablex/source"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type flags struct {
	config      string
	interactive bool
	filter      string
	sort        string
	desc        bool
	page        int
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "tablex",
		Short:         "Browse members and posts as filterable, sortable, paginated tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&f.config, "config", "c", "", "Config file (yaml, json, toml or ini)")
	rootCmd.PersistentFlags().BoolVarP(&f.interactive, "interactive", "i", false, "Open an interactive table")
	rootCmd.PersistentFlags().StringVar(&f.filter, "filter", "", "Initial filter text")
	rootCmd.PersistentFlags().StringVar(&f.sort, "sort", "", "Column to sort by")
	rootCmd.PersistentFlags().BoolVar(&f.desc, "desc", false, "Sort descending")
	rootCmd.PersistentFlags().IntVar(&f.page, "page", 1, "Page number, starting from 1")

	membersCmd := &cobra.Command{
		Use:   "members",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, f, "/api/users", "members", func(src source.Source[page.User], options *page.Options) (*page.Page[page.User], error) {
				options.OnRemoveMember = func(u page.User) error {
					log.Default().Warn("remove member requested on a read-only source", "id", u.ID, "email", u.Email)
					return errors.Errorf("cannot remove %s: source is read-only", u.Email)
				}
				return page.NewMembersPage(src, options)
			})
		},
	}

	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, f, "/api/posts", "posts", page.NewPostsPage)
		},
	}

	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(postsCmd)
	return rootCmd
}

func buildSource[T any](conf *Config, name string, l logger.Logger) (source.Source[T], error) {
	src, err := source.NewSourceWithOptions[T](conf.Source)
	if err != nil {
		return nil, errors.WithMessage(err, "create source failed")
	}

	if conf.Cache != nil {
		store, err := cache.NewStoreWithOptions[string, []T](conf.Cache)
		if err != nil {
			_ = src.Close()
			return nil, errors.WithMessage(err, "create cache failed")
		}
		src = source.NewCachedSource(src, store, conf.CacheTTL, l)
	}

	if conf.Metrics {
		obs, err := source.NewObservableSource(src, &source.ObservableSourceOptions{
			Name:          "tablex_" + name,
			EnableMetrics: true,
			EnableLogging: true,
		})
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		src = obs
	}
	return src, nil
}

func runPage[T any](cmd *cobra.Command, f *flags, resourcePath string, name string, newPage func(source.Source[T], *page.Options) (*page.Page[T], error)) error {
	conf, err := loadConfig(f.config, resourcePath)
	if err != nil {
		return err
	}

	l, err := logger.NewSLogWithOptions(&conf.Log)
	if err != nil {
		return errors.WithMessage(err, "create logger failed")
	}
	log.SetDefault(l)

	src, err := buildSource[T](conf, name, l)
	if err != nil {
		return err
	}

	options := conf.Table
	options.Logger = l
	styles := render.DefaultStyles()
	if !f.interactive {
		styles = render.PlainStyles()
	}
	options.Styles = &styles

	p, err := newPage(src, &options)
	if err != nil {
		_ = src.Close()
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := p.Load(ctx); err != nil {
		return errors.WithMessagef(err, "load %s failed", name)
	}

	t := p.Table()
	if f.filter != "" {
		t.SetFilterValue(f.filter)
	}
	if f.sort != "" {
		if err := t.SetSorting(f.sort, f.desc); err != nil {
			return err
		}
	}
	if f.page > 1 {
		t.SetPageIndex(f.page - 1)
	}

	if f.interactive {
		_, err := p.Program(tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), p.Render())
	return err
}
