// Package mockserver serves canned {code, msg, data} envelopes for
// development without a live backend.
//
// Definitions are loaded eagerly from YAML or JSON files matched by a glob
// (** supported). Each definition binds a method and an exact URL path to a
// default response, optionally refined by expr-lang cases evaluated against
// the request:
//
//	mocks:
//	  - url: /vab-mock-server/login
//	    method: post
//	    response: {code: 500, msg: "wrong username or password"}
//	    cases:
//	      - when: body.username in ["admin", "editor", "test"]
//	        response: {code: 200, msg: success}
//	        dataExpr: '{"accessToken": body.username + "-accessToken"}'
//
// Expressions see body, query, headers, method and path, plus the helpers
// signToken, verifyToken and pick. Unmatched requests get a 404 envelope.
// Path prefixes may be proxied to an upstream instead.
package mockserver
