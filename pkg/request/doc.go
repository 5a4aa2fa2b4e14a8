// Package request is the HTTP request pipeline every dashboard call goes
// through.
//
// For each outgoing Config the Client runs an ordered list of Transforms:
//
//   - ResolveRoute picks the mock layer or the real backend (force markers
//     first, then the mock policy) and rewrites the base address for real
//     traffic.
//   - MarkPassthrough flags proxy namespaces that must be forwarded as-is.
//   - InjectAuth attaches the session token under the configured header.
//   - StripBody drops top-level fields whose value is "", false, 0 or null.
//   - EncodeBody serializes the payload as JSON or as a form.
//   - MarkSlow flags endpoints that show the shared loading indicator.
//
// The response is normalized against the {code, msg, data} envelope: codes
// in the success set return the envelope unchanged, anything else is mapped
// to an outcome (invalid session, no permission, generic failure) and
// returned as an *ApplicationError. Transport failures are retried a bounded
// number of times with a fixed delay before surfacing as a *TransportError.
//
// Example:
//
//	c := request.New(request.DefaultSettings(),
//	    request.WithPolicy(pol),
//	    request.WithSession(store),
//	)
//	env, err := c.Request(ctx, http.MethodPost, "/login", map[string]any{"username": "admin"})
package request
