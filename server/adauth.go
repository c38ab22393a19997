/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
)

// adAuth authorizes requests by AD group membership. With no allowed groups
// configured the middleware is a no-op. Otherwise the request must carry an
// X-AD-Memberships header naming at least one allowed group.
//
// Trust model: the header is trusted as-is. An upstream gateway is expected
// to authenticate the user and set it from validated group membership.
func adAuth(allowedGroups []string) func(http.Handler) http.Handler {
	allowed := groupSet(allowedGroups)

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userGroups := splitGroups(r.Header.Get("X-AD-Memberships"))
			for _, g := range userGroups {
				if allowed[g] {
					next.ServeHTTP(w, r)
					return
				}
			}
			clog.FromContext(r.Context()).Warnf("authorization denied for %s %s: user groups %v", r.Method, r.URL.Path, userGroups)
			writeJSON(w, http.StatusForbidden, errorBody{Detail: "Forbidden: user not in allowed AD groups"})
		})
	}
}

func groupSet(groups []string) map[string]bool {
	set := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			set[g] = true
		}
	}
	return set
}

func splitGroups(header string) []string {
	var groups []string
	for g := range strings.SplitSeq(header, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}
