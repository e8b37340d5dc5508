// Package urls provides centralized constants for all backend routes used
// throughout the application.
//
// This package was created to enable route updates without hunting through
// code. All backend paths are defined here as exported constants (or small
// builders for parameterized routes) and can be updated in a single location
// when the backend contract changes.
//
// Usage:
//
//	import "github.com/bhujbal-nitin/poc-portal/internal/urls"
//
//	body, err := c.post(ctx, urls.AuthLogin, "", credentials)
package urls
