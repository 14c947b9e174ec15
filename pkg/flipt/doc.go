// Package flipt adapts a Flipt evaluation engine to the flags package.
//
// An Adapter resolves its configuration from explicit Config fields, the
// FLIPT_URL, FLIPT_NAMESPACE, FLIPT_CLIENT_TOKEN and FLIPT_UPDATE_INTERVAL
// environment variables, and built-in defaults, in that order. Engine clients
// are created lazily and shared through a ClientManager, one per URL,
// namespace and token.
//
// Basic usage:
//
//	adapter := flipt.New(flipt.Config{Namespace: "checkout"})
//
//	newFlow := flags.New("new-checkout",
//		flipt.Boolean(adapter, flipt.Enabled),
//		flags.WithIdentify[bool](func(ctx context.Context) (flipt.Entities, error) {
//			return flipt.Entities{"id": userID(ctx), "plan": "pro"}, nil
//		}),
//		flags.WithDefault[bool, flipt.Entities](false),
//	)
//
//	enabled, err := newFlow.Value(ctx)
//
// Every entity must carry a truthy "id". Other entries are sent to Flipt as
// context attributes, stringified; structured values are encoded as JSON.
// Missing or invalid entities fail with ErrInvalidContext before any network call.
//
// Variant flags project a VariantResult; the attachment is passed through
// unparsed and is nil when the variant has none:
//
//	theme := flipt.Variant(adapter, func(r flipt.VariantResult) string {
//		return r.VariantKey
//	})
//
// Adapter.ProviderData lists every flag of the namespace for discovery tooling
// and never fails; errors are reported as hints. Combine it with
// flags.DiscoveryHandler to expose it over HTTP.
package flipt
