// Package components provides the page shell shared by UI features.
package components

// DatastarScript is the client bundle matching the datastar-go SDK.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// LayoutData configures the page shell.
type LayoutData struct {
	Title string
	IsDev bool
}
