// Package fliptclient is a small HTTP client for the Flipt REST API.
//
// It covers the endpoints a flag adapter needs: server-side boolean and variant
// evaluation, flag listing for a namespace, and a namespace lookup that doubles
// as a connectivity and credentials probe.
//
// # Usage
//
//	client, err := fliptclient.New("http://localhost:8080",
//		fliptclient.WithNamespace("default"),
//		fliptclient.WithClientToken(os.Getenv("FLIPT_CLIENT_TOKEN")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.EvaluateBoolean(ctx, fliptclient.EvaluationRequest{
//		FlagKey:  "new-checkout",
//		EntityID: "user-123",
//		Context:  map[string]string{"country": "US"},
//	})
//
// The client does not retry. Transport errors, non-2xx responses and decoding
// failures are returned to the caller as-is.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the status code and the
// message Flipt reported. Use errors.As to inspect it, or errors.Is with
// ErrRequestFailed / ErrDecodeResponse for the other failure classes.
package fliptclient
