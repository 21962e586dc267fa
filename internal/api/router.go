package api

import (
	"encoding/json"
	"net/http"

	"veil/internal/auth"
	"veil/internal/handler"
	"veil/internal/model"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps are the constructed handlers and sessions the router wires together.
type Deps struct {
	Wallet  *handler.WalletHandler
	Privacy *handler.PrivacyHandler
	Auth    *handler.AuthHandler
	Session *auth.Session
}

// SetupRouter sets up the mux. Wallet and privacy routes are gated on an
// authenticated identity session; the wallet session itself knows nothing
// about auth.
func SetupRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Auth endpoints (open)
	mux.HandleFunc("/auth/signin", d.Auth.SignIn)
	mux.HandleFunc("/auth/signout", d.Auth.SignOut)
	mux.HandleFunc("/auth/me", d.Auth.Me)

	// Wallet endpoints
	mux.Handle("/wallet/create", requireAuth(d.Session, d.Wallet.Create))
	mux.Handle("/wallet/balance", requireAuth(d.Session, d.Wallet.GetBalance))
	mux.Handle("/wallet/airdrop", requireAuth(d.Session, d.Wallet.Airdrop))
	mux.Handle("/wallet/send", requireAuth(d.Session, d.Wallet.Send))
	mux.Handle("/wallet/receive", requireAuth(d.Session, d.Wallet.Receive))
	mux.Handle("/wallet/transactions", requireAuth(d.Session, d.Wallet.Transactions))
	mux.Handle("/wallet/export", requireAuth(d.Session, d.Wallet.Export))
	mux.Handle("/wallet/import", requireAuth(d.Session, d.Wallet.Import))

	// Privacy endpoints
	mux.Handle("/privacy/scores", requireAuth(d.Session, d.Privacy.GetScores))
	mux.Handle("PUT /privacy/settings/{name}", requireAuth(d.Session, d.Privacy.SetToggle))
	mux.Handle("PUT /privacy/level", requireAuth(d.Session, d.Privacy.SetLevel))

	return mux
}

// requireAuth rejects requests while no user is signed in with the identity
// provider.
func requireAuth(session *auth.Session, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.IsAuthenticated(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(model.ErrorResponse{Error: "sign in required"})
			return
		}
		next(w, r)
	})
}
