package testutil

import (
	"net/http"

	id "profiles/pkg/domain"
	"profiles/pkg/requestcontext"
)

// WithAccount marks the request as authenticated for accountID, the way the
// auth middleware would.
func WithAccount(req *http.Request, accountID id.AccountID) *http.Request {
	return req.WithContext(requestcontext.WithAccountID(req.Context(), accountID))
}
