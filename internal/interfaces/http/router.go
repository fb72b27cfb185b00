package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Albaranes-api/internal/application/auth"
	"github.com/jhoicas/Albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/Albaranes-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ClientUC       *usecase.ClientUseCase
	ProjectUC      *usecase.ProjectUseCase
	DeliveryNoteUC *deliverynote.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret, deps.AuthUC)

	// Usuario (público)
	userHandler := NewUserHandler(deps.AuthUC)
	users := api.Group("/user")
	users.Post("/register", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Post("/restore", userHandler.RestoreAccount)
	users.Post("/forgot-password", userHandler.ForgotPassword)
	users.Post("/reset-password", userHandler.ResetPassword)

	// La verificación solo exige token: el usuario aún no está verificado.
	users.Post("/verify-email", authMW, userHandler.VerifyEmail)

	// Rutas protegidas (Bearer Token + email verificado)
	protected := []fiber.Handler{authMW, RequireVerified()}

	me := api.Group("/user", protected...)
	me.Get("/me", userHandler.Me)
	me.Put("/me", userHandler.UpdateMe)
	me.Patch("/onboarding/company", userHandler.OnboardCompany)
	me.Patch("/logo", userHandler.UploadLogo)
	me.Delete("/", userHandler.DeleteAccount)
	me.Post("/invitations", userHandler.SendInvitation)
	me.Get("/invitations/received", userHandler.ListReceivedInvitations)
	me.Get("/invitations/sent", userHandler.ListSentInvitations)
	me.Put("/invitations/:id/accept", userHandler.AcceptInvitation)
	me.Put("/invitations/:id/reject", userHandler.RejectInvitation)
	me.Delete("/invitations/:id", userHandler.CancelInvitation)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := api.Group("/client", protected...)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/archived", clientHandler.ListArchived)
	clients.Put("/restore/:id", clientHandler.Restore)
	clients.Get("/:id", clientHandler.Get)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Proyectos
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects := api.Group("/project", protected...)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/archived", projectHandler.ListArchived)
	projects.Put("/restore/:id", projectHandler.Restore)
	projects.Get("/:id", projectHandler.Get)
	projects.Put("/:id", projectHandler.Update)
	projects.Delete("/:id", projectHandler.Delete)

	// Albaranes
	noteHandler := NewDeliveryNoteHandler(deps.DeliveryNoteUC)
	notes := api.Group("/deliverynote", protected...)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/archived", noteHandler.ListArchived)
	notes.Put("/restore/:id", noteHandler.Restore)
	notes.Post("/sign/:id", noteHandler.Sign)
	notes.Get("/pdf/:id", noteHandler.GetPDF)
	notes.Get("/:id", noteHandler.Get)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)
}
