package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleList returns the caller's unexpired sessions across devices, the
// current one flagged.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}
	currentID, _ := httpx.SessionIDFromContext(r.Context())

	sessions, err := h.SessionService.ListForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionInfo(s, currentID))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete revokes one of the caller's sessions by id (sign out another
// device). Deleting a session that belongs to someone else is a not-found,
// not a forbidden: session ids are not enumerable.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeAccessUnauthorized,
			"authentication required")
		return
	}

	id := r.PathValue("id")
	sess, err := h.SessionService.Get(r.Context(), id)
	if err != nil || sess.UserID != userID {
		httpx.WriteError(w, http.StatusNotFound, authsdk.ErrorCodeResourceNotFound,
			"resource not found")
		return
	}

	if err := h.SessionService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "ok"})
}
