// Package util provides small shared helpers used across vab packages.
//
//   - JoinURL / IsAbsoluteURL / StripOrigin - base address and path handling
//   - TruncateBody - cap request/response bodies for safe logging
package util
