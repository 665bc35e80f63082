package http

import (
	"net/http"

	"github.com/DannyJSullivan/card-inventory-api/pkg/httputil"
)

// WelcomeMessage is returned by the root endpoint.
const WelcomeMessage = "Welcome to Baseball Card Inventory API"

// Root handles GET /
func Root(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: WelcomeMessage})
}
