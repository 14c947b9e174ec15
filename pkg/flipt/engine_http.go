package flipt

import (
	"context"

	"github.com/dmitrymomot/flags-flipt/pkg/fliptclient"
)

// HTTPEngineFactory returns an EngineFactory backed by the Flipt REST API.
// Initialization fetches the configured namespace, so unreachable servers,
// unknown namespaces and rejected tokens fail at init time.
// Extra client options are applied after the settings-derived ones.
func HTTPEngineFactory(opts ...fliptclient.Option) EngineFactory {
	return func(ctx context.Context, s Settings) (Engine, error) {
		clientOpts := append([]fliptclient.Option{
			fliptclient.WithNamespace(s.Namespace),
			fliptclient.WithClientToken(s.ClientToken),
		}, opts...)

		client, err := fliptclient.New(s.URL, clientOpts...)
		if err != nil {
			return nil, err
		}
		if _, err := client.GetNamespace(ctx); err != nil {
			return nil, err
		}
		return &httpEngine{client: client}, nil
	}
}

type httpEngine struct {
	client *fliptclient.Client
}

func (e *httpEngine) EvaluateBoolean(ctx context.Context, req EvaluationRequest) (BooleanEvaluation, error) {
	resp, err := e.client.EvaluateBoolean(ctx, toClientRequest(req))
	if err != nil {
		return BooleanEvaluation{}, err
	}
	return BooleanEvaluation{
		FlagKey: resp.FlagKey,
		Enabled: resp.Enabled,
		Reason:  resp.Reason,
	}, nil
}

func (e *httpEngine) EvaluateVariant(ctx context.Context, req EvaluationRequest) (VariantEvaluation, error) {
	resp, err := e.client.EvaluateVariant(ctx, toClientRequest(req))
	if err != nil {
		return VariantEvaluation{}, err
	}
	return VariantEvaluation{
		FlagKey:           resp.FlagKey,
		Match:             resp.Match,
		VariantKey:        resp.VariantKey,
		VariantAttachment: resp.VariantAttachment,
		Reason:            resp.Reason,
	}, nil
}

func (e *httpEngine) ListFlags(ctx context.Context) ([]FlagSummary, error) {
	flags, err := e.client.ListFlags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FlagSummary, 0, len(flags))
	for _, f := range flags {
		out = append(out, FlagSummary{
			Key:         f.Key,
			Enabled:     f.Enabled,
			Type:        flagType(f.Type),
			Description: f.Description,
		})
	}
	return out, nil
}

// Refresh re-validates the namespace and credentials against the server.
func (e *httpEngine) Refresh(ctx context.Context) error {
	_, err := e.client.GetNamespace(ctx)
	return err
}

func toClientRequest(req EvaluationRequest) fliptclient.EvaluationRequest {
	return fliptclient.EvaluationRequest{
		FlagKey:  req.FlagKey,
		EntityID: req.EntityID,
		Context:  req.Context,
	}
}

func flagType(t string) FlagType {
	if t == fliptclient.BooleanFlagType {
		return BooleanFlag
	}
	return VariantFlag
}
