package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type UserInfoHandler struct {
	Store store.Store
}

// ServeHTTP returns the authenticated user's profile.
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}

	user, err := h.Store.Users().GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}
