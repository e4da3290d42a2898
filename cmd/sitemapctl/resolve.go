package main

import (
	"fmt"
	"net/url"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/sitemap"
	"github.com/zescabedo/globalpayments-poc-sub001/internal/urlresolver"
)

type resolveOptions struct {
	kinds   []string
	slug    string
	locale  string
	filters domain.Filters
	query   []string
}

func newResolveCommand(root *rootOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <host>",
		Short: "Resolve route kinds to site URLs",
		Long: `Resolve one or more route kinds against the routing configuration
of a host. Without --kind every kind is resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			site, err := env.services.Registry.ResolveSite(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			rows, err := opts.resolve(site)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Kind", "URL"})
			t.AppendRows(rows)
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.kinds, "kind", "k", nil, "route kinds to resolve")
	cmd.Flags().StringVarP(&opts.slug, "slug", "s", "", "slug for item routes")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "language of the URL")
	cmd.Flags().StringSliceVar(&opts.filters.ContentTypes, "content-type", nil, "content type filters")
	cmd.Flags().StringSliceVar(&opts.filters.Topics, "topic", nil, "topic filters")
	cmd.Flags().StringSliceVar(&opts.filters.Products, "product", nil, "product filters")
	cmd.Flags().StringSliceVar(&opts.filters.Industries, "industry", nil, "industry filters")
	cmd.Flags().StringSliceVar(&opts.query, "query", nil, "extra key=value query parameters")
	return cmd
}

func (o *resolveOptions) resolve(site *domain.SiteDescriptor) ([]table.Row, error) {
	kinds := domain.RouteKinds
	if len(o.kinds) > 0 {
		kinds = make([]domain.RouteKind, 0, len(o.kinds))
		for _, raw := range o.kinds {
			kind, ok := domain.ParseRouteKind(raw)
			if !ok {
				return nil, fmt.Errorf("unknown route kind %q", raw)
			}
			kinds = append(kinds, kind)
		}
	}

	lang := site.DefaultLanguage
	if o.locale != "" {
		matched, ok := sitemap.MatchLocale(site, o.locale)
		if !ok {
			return nil, &domain.InvalidLocaleError{Locale: o.locale, Available: site.Languages}
		}
		lang = matched
	}
	locale := site.LocalePrefix(lang)

	raw := url.Values{}
	for _, pair := range o.query {
		values, err := url.ParseQuery(pair)
		if err != nil {
			return nil, fmt.Errorf("parse query %q: %w", pair, err)
		}
		for k, vs := range values {
			raw[k] = append(raw[k], vs...)
		}
	}

	resolver := urlresolver.NewLocalized(&site.RouteConfig)
	rows := make([]table.Row, 0, len(kinds))
	for _, kind := range kinds {
		result := resolver.Resolve(urlresolver.Request{
			Kind:     kind,
			Slug:     o.slug,
			Filters:  o.filters,
			RawQuery: raw,
			Locale:   locale,
		})
		rows = append(rows, table.Row{kind, result.String()})
	}
	return rows, nil
}
