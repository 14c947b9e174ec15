package flipt

import (
	"context"
	"strings"

	"github.com/dmitrymomot/flags-flipt/pkg/flags"
	"github.com/dmitrymomot/flags-flipt/pkg/logger"
	"github.com/dmitrymomot/flags-flipt/pkg/metrics"
)

// Hint keys reported in provider data.
const (
	HintMissingClientToken = "flipt/missing-client-token"
	HintMissingURL         = "flipt/missing-url"
	HintFailedToFetch      = "flipt/failed-to-fetch"
)

// ProviderData lists every flag in the configured namespace as discovery
// definitions. It never fails: problems are reported as hints.
func (a *Adapter) ProviderData(ctx context.Context) flags.ProviderData {
	if hints := a.missingCredentials(); len(hints) > 0 {
		a.metrics.ObserveProviderData(metrics.OutcomeMissingCredentials)
		return flags.ProviderData{Definitions: map[string]flags.FlagDefinition{}, Hints: hints}
	}

	data, err := a.fetchProviderData(ctx)
	if err != nil {
		a.metrics.ObserveProviderData(metrics.OutcomeError)
		a.logger.WarnContext(ctx, "failed to fetch flipt flags",
			logger.Component("flipt"),
			logger.Error(err),
		)
		return flags.ProviderData{
			Definitions: map[string]flags.FlagDefinition{},
			Hints: []flags.Hint{{
				Key:  HintFailedToFetch,
				Text: "Failed to fetch Flipt flags: " + err.Error(),
			}},
		}
	}

	a.metrics.ObserveProviderData(metrics.OutcomeSuccess)
	return data
}

// GetProviderData is a shorthand for New(cfg, opts...).ProviderData(ctx).
func GetProviderData(ctx context.Context, cfg Config, opts ...Option) flags.ProviderData {
	return New(cfg, opts...).ProviderData(ctx)
}

func (a *Adapter) fetchProviderData(ctx context.Context) (flags.ProviderData, error) {
	s, err := a.Settings()
	if err != nil {
		return flags.ProviderData{}, err
	}
	engine, err := a.manager.Client(ctx, s)
	if err != nil {
		return flags.ProviderData{}, err
	}
	list, err := engine.ListFlags(ctx)
	if err != nil {
		return flags.ProviderData{}, err
	}

	base := strings.TrimRight(s.URL, "/")
	data := flags.EmptyProviderData()
	for _, f := range list {
		def := flags.FlagDefinition{
			Origin:      base + "/#/namespaces/" + s.Namespace + "/flags/" + f.Key,
			Description: f.Description,
			Options:     []flags.Option{},
		}
		if f.Type == BooleanFlag {
			def.Options = []flags.Option{
				{Value: true, Label: "Enabled"},
				{Value: false, Label: "Disabled"},
			}
		}
		data.Definitions[f.Key] = def
	}
	return data, nil
}

// missingCredentials checks the explicit config and the environment only;
// built-in defaults do not count.
func (a *Adapter) missingCredentials() []flags.Hint {
	if !a.requireCredentials {
		return nil
	}
	// Resolution errors surface through the fetch path.
	if _, err := a.Settings(); err != nil {
		return nil
	}

	var hints []flags.Hint
	token := a.env.ClientToken
	if a.cfg.Authentication != nil {
		token = a.cfg.Authentication.ClientToken
	}
	if token == "" {
		hints = append(hints, flags.Hint{
			Key:  HintMissingClientToken,
			Text: "Missing Flipt client token. Set FLIPT_CLIENT_TOKEN or pass Authentication.ClientToken.",
		})
	}
	if a.cfg.URL == "" && a.env.URL == "" {
		hints = append(hints, flags.Hint{
			Key:  HintMissingURL,
			Text: "Missing Flipt URL. Set FLIPT_URL or pass URL.",
		})
	}
	return hints
}
