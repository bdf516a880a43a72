// Package infra contains technical adapters such as the Edupage
// HTTP client, cache stores and metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
