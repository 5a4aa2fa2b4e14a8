// Package cli implements the vab command line.
//
// Commands:
//   - serve: run the mock server over the mock controller definitions
//   - request: send one call through the request pipeline
//   - route: show where URLs would be routed (mock or real)
//   - login, whoami, logout: manage the persisted session
//   - guard: evaluate the route guard for a path
//   - config: show the effective configuration and where each key came from
//   - version: show build information
//
// Every command loads configuration the same way: defaults, then the
// global or --config file, then .vabrc.* in the working directory, then
// VAB_* environment variables, then flags.
//
// Usage:
//
//	vab serve --port 8080
//	vab login --username admin --password 123456
//	vab request post /userInfo --data '{"accessToken":"admin-accessToken"}'
//	vab route /login /vab-mock-server/profile
//	vab config sources
package cli
