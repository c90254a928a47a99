// Package sdk is a Go client for a remote fieldex server.
//
// It speaks the HTTP API served by fieldex.Client.Handler and `fieldex serve`.
// API errors carry the server's error code and match the fieldex sentinels
// with errors.Is.
//
//	c, _ := sdk.New("http://localhost:8080", sdk.WithAPIKey(key))
//	_, _ = c.AddField(ctx, "price", "float")
//	_ = c.IndexField(ctx, "doc1", "price", "19.99")
//	ids, _ := c.QueryField(ctx, "price", "19.99")
//	if errors.Is(err, fieldex.ErrParse) { ... }
package sdk
