// internal/app/system/limits/limits.go
package limits

// Request body size limits. Every endpoint takes small JSON documents, so
// anything larger is rejected before it is decoded.
const (
	// MaxRequestBody applies to every route.
	MaxRequestBody = 1 << 20 // 1 MB

	// MaxReviewBody bounds review submissions, whose comment is the
	// largest free-text field the API accepts.
	MaxReviewBody = 64 << 10 // 64 KB
)
