// Package sensu provides an HTTP client for the Sensu Go backend API.
//
// # Overview
//
// This package handles HTTP communication with a Sensu Go backend: paginated
// reads of namespaced resource collections, a handful of mutating actions, and
// the credentials attached to each request.
//
// # Architecture
//
//   - client.go: Client construction, paginated reads, request plumbing
//   - actions.go: check execution, event resolution, silence create/delete
//   - auth.go: Credentials and creator username resolution
//   - types.go: Item, an untyped resource record, with field accessors
//   - errors.go: RequestError and status helpers
//
// # Pagination
//
// Collections are read one page at a time. The backend returns the token for
// the next page in the Sensu-Continue response header; an absent or empty
// header means the collection is complete:
//
//	page, err := client.FetchPage(ctx, sensu.PageQuery{
//		Resource:      "events",
//		FieldSelector: `event.check.state != "passing"`,
//		Limit:         500,
//	})
//	for err == nil && page.Continue != "" {
//		page, err = client.FetchPage(ctx, sensu.PageQuery{
//			Resource: "events",
//			Limit:    500,
//			Continue: page.Continue,
//		})
//	}
//
// The fetch package drives this loop asynchronously; callers in the UI never
// page by hand.
//
// # Authentication
//
// An API key is sent as "Authorization: Key <key>"; otherwise an access token
// is sent as "Authorization: Bearer <token>". Credentials can be swapped at
// runtime with SetCredentials when the config file changes.
//
// # Error Handling
//
// Transport failures and non-2xx responses are returned as *RequestError.
// IsUnauthorized reports 401 and 403 responses so callers can prompt for new
// credentials instead of retrying.
package sensu
