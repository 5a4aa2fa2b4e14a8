// Package rules decides whether a request URL is covered by a mock policy
// rule list.
//
// A Rule is one of three variants, resolved when configuration is loaded:
//
//   - Exact: "/vab-mock-server/login" matches the URL itself and anything
//     that starts with it ("/vab-mock-server/login/sms" included).
//   - Wildcard: "/vab-mock-server/table/*" - every "*" matches any sequence
//     of characters and the whole URL must match.
//   - Pattern: a regular expression (RE2 syntax); matches when the URL
//     contains a match.
//
// In YAML or JSON a plain string is an Exact or Wildcard rule depending on
// whether it contains "*"; a mapping {regex: "..."} is a Pattern rule.
package rules
