package main

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"YieldSense/internal/di"
	"YieldSense/internal/domain/models"
	respcache "YieldSense/internal/service/cache"
	"YieldSense/internal/usecase"
	"YieldSense/pkg/config"
	"YieldSense/pkg/metrics"
)

// priceCmd resolves one token the same way the API does and prints where
// the price came from.
func priceCmd(load func() (*config.Config, error)) *cobra.Command {
	var override float64

	cmd := &cobra.Command{
		Use:   "price <token>",
		Short: "Resolve a token's USD price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			token, err := models.ParseToken(args[0])
			if err != nil {
				return err
			}
			l, err := di.ProvideLogger(cfg)
			if err != nil {
				return err
			}

			var ov *float64
			if cmd.Flags().Changed("override") {
				ov = &override
			}
			resolver := di.ProvidePriceResolver(cfg, metrics.NewWithRegistry(prometheus.NewRegistry()), l)
			return printJSON(cmd, resolver.Resolve(cmd.Context(), token, ov))
		},
	}
	cmd.Flags().Float64Var(&override, "override", 0, "use this price instead of querying")
	return cmd
}

// newsCmd fetches and scores headlines for one token without caching.
func newsCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "news <token>",
		Short: "Fetch headlines and their sentiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			l, err := di.ProvideLogger(cfg)
			if err != nil {
				return err
			}
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			base := di.ProvideModelService(cfg, m)
			caps := di.ProvideCapabilities(base, l)
			fetcher := di.ProvideNewsFetcher(cfg, di.ProvideRotator(cfg, l), m, l)
			scorer := di.ProvideSentimentScorer(cfg, base, caps, l)

			uc := usecase.NewTokenNewsUseCase(fetcher, scorer, respcache.NewResponseCache(nil, m, l), cfg.Cache.NewsTTL, l)
			body, _, err := uc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var v interface{}
			if err := json.Unmarshal(body, &v); err != nil {
				return err
			}
			return printJSON(cmd, v)
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
