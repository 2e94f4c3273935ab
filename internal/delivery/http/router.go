package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"cheerup/internal/delivery/http/controllers"
	"cheerup/internal/delivery/http/middleware"
	"cheerup/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	participationController *controllers.ParticipationController,
	friendshipController *controllers.FriendshipController,
	profileController *controllers.ProfileController,
	notificationController *controllers.NotificationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Participation
	mux.HandleFunc("POST /events/{eventID}/toggle-join", requireAuth(participationController.ToggleJoin))
	mux.HandleFunc("POST /events/{eventID}/approve/{userID}", requireAuth(participationController.Approve))
	mux.HandleFunc("POST /events/{eventID}/reject/{userID}", requireAuth(participationController.Reject))
	mux.HandleFunc("POST /events/{eventID}/remove/{userID}", requireAuth(participationController.Remove))

	// Profiles and friendships
	mux.HandleFunc("GET /profiles/{userID}", requireAuth(profileController.View))
	mux.HandleFunc("PATCH /profiles/me", requireAuth(profileController.UpdateBio))
	mux.HandleFunc("POST /profiles/{userID}/toggle-join", requireAuth(friendshipController.ToggleRequest))
	mux.HandleFunc("POST /profiles/{userID}/approve", requireAuth(friendshipController.Approve))
	mux.HandleFunc("POST /profiles/{userID}/reject", requireAuth(friendshipController.Reject))
	mux.HandleFunc("POST /profiles/{userID}/remove", requireAuth(friendshipController.Remove))
	mux.HandleFunc("GET /friends/requests", requireAuth(friendshipController.ListIncoming))

	// Notifications
	mux.HandleFunc("GET /notifications", requireAuth(notificationController.ListUnread))
	mux.HandleFunc("POST /notifications/{notificationID}/read", requireAuth(notificationController.MarkRead))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
