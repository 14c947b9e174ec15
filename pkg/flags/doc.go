// Package flags defines the provider-agnostic contract between application code
// and feature-flag backends.
//
// # Architecture
//
// The package is built around three concepts:
//
// 1. Adapters - backend integrations implementing Adapter[V, E], a single Decide
// operation that turns a flag key and an entity into a typed value.
// 2. Flags - declarations binding a key, an identify function and an adapter,
// optionally with a default value used when the adapter fails.
// 3. Provider data - a discovery document listing flag definitions and
// diagnostic hints, consumed by developer tooling rather than by evaluation.
//
// Evaluation failures are returned to the caller (or replaced by the flag's
// default). Discovery never fails: problems are reported as hints.
//
// # Usage
//
//	identify := flags.Dedupe(func(ctx context.Context) (flipt.Entities, error) {
//		user := auth.UserFromContext(ctx)
//		return flipt.Entities{"id": user.ID, "plan": user.Plan}, nil
//	})
//
//	checkout := flags.New("new-checkout",
//		flipt.Boolean(adapter, flipt.Enabled),
//		flags.WithIdentify[bool](identify),
//		flags.WithDefault[bool, flipt.Entities](false),
//	)
//
//	enabled, err := checkout.Value(ctx)
//
// # Request Scope
//
// Dedupe memoizes identify results for the lifetime of a request scope created
// with WithRequestScope, so several flags evaluated during one request resolve
// the entity once. Without a scope the wrapped function is called every time.
//
// # Discovery
//
// DiscoveryHandler serves ProviderData as JSON behind a shared secret, for
// tooling that lists the flags an application knows about:
//
//	r.Mount("/.well-known/vercel/flags", flags.DiscoveryHandler(secret, func(ctx context.Context) flags.ProviderData {
//		return flags.MergeProviderData(adapter.ProviderData(ctx), flags.Definitions(checkout))
//	}))
//
// # Error Handling
//
// The package defines sentinel errors that can be checked with errors.Is:
//
//	if errors.Is(err, flags.ErrIdentify) {
//		// identify function failed
//	}
package flags
