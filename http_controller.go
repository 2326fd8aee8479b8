package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// AccountService is the behavior the HTTP layer needs from Service
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*AccountView, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Account(ctx context.Context, id string) (*AccountView, error)
	UpdateEmail(ctx context.Context, id string, req UpdateEmailRequest) (*AccountView, error)
	DeleteAccount(ctx context.Context, id string) error
}

var _ AccountService = (*Service)(nil)

// Response messages
const (
	MsgWelcome      = "Welcome!"
	MsgRegistered   = "User created successfully!"
	MsgLoggedIn     = "Authentication successful"
	MsgEmailUpdated = "User updated successfully!"
)

// AccountControllerRoutes holds the paths the controller is mounted on
type AccountControllerRoutes struct {
	Home     string
	Register string
	Login    string
	Show     string
	Update   string
	Delete   string
}

// AccountController exposes AccountService over HTTP
type AccountController struct {
	Service AccountService
	Logger  Logger
	Routes  *AccountControllerRoutes
}

// AccountControllerOption configures an AccountController
type AccountControllerOption func(*AccountController) *AccountController

// WithControllerLogger sets the logger
func WithControllerLogger(logger Logger) AccountControllerOption {
	return func(ac *AccountController) *AccountController {
		ac.Logger = normalizeLogger(logger)
		return ac
	}
}

// WithControllerRoutes overrides the default paths
func WithControllerRoutes(routes *AccountControllerRoutes) AccountControllerOption {
	return func(ac *AccountController) *AccountController {
		if routes != nil {
			ac.Routes = routes
		}
		return ac
	}
}

// NewAccountController returns a controller with the default routes
func NewAccountController(service AccountService, opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Service: service,
		Logger:  defLogger{},
		Routes: &AccountControllerRoutes{
			Home:     "/",
			Register: "/auth/register",
			Login:    "/auth/login",
			Show:     "/user/:id",
			Update:   "/auth/:id/update",
			Delete:   "/auth/:id/delete",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterAccountRoutes mounts the controller. The protected handlers run
// in order before every account route.
func RegisterAccountRoutes(app fiber.Router, controller *AccountController, protected ...fiber.Handler) {
	app.Get(controller.Routes.Home, controller.Home).Name("home.get")
	app.Post(controller.Routes.Register, controller.Register).Name("register.post")
	app.Post(controller.Routes.Login, controller.Login).Name("login.post")

	app.Get(controller.Routes.Show, withHandlers(protected, controller.Show)...).Name("user.get")
	app.Put(controller.Routes.Update, withHandlers(protected, controller.Update)...).Name("user.update")
	app.Delete(controller.Routes.Delete, withHandlers(protected, controller.Delete)...).Name("user.delete")
}

func withHandlers(before []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(before)+1)
	for _, h := range before {
		if h != nil {
			out = append(out, h)
		}
	}
	return append(out, handler)
}

func (ac *AccountController) Home(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"msg": MsgWelcome})
}

func (ac *AccountController) Register(c *fiber.Ctx) error {
	var payload RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return WriteError(c, ac.Logger, invalidInput("body", MsgInvalidBody))
	}

	if _, err := ac.Service.Register(c.UserContext(), payload); err != nil {
		return WriteError(c, ac.Logger, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"msg": MsgRegistered})
}

func (ac *AccountController) Login(c *fiber.Ctx) error {
	var payload LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return WriteError(c, ac.Logger, invalidInput("body", MsgInvalidBody))
	}

	result, err := ac.Service.Login(c.UserContext(), payload)
	if err != nil {
		return WriteError(c, ac.Logger, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"msg":   MsgLoggedIn,
		"token": result.Token,
		"user":  result.Account,
	})
}

func (ac *AccountController) Show(c *fiber.Ctx) error {
	account, err := ac.Service.Account(c.UserContext(), c.Params("id"))
	if err != nil {
		return WriteError(c, ac.Logger, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"user": account})
}

func (ac *AccountController) Update(c *fiber.Ctx) error {
	var payload UpdateEmailRequest
	if err := c.BodyParser(&payload); err != nil {
		return WriteError(c, ac.Logger, invalidInput("body", MsgInvalidBody))
	}

	if _, err := ac.Service.UpdateEmail(c.UserContext(), c.Params("id"), payload); err != nil {
		return WriteError(c, ac.Logger, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"msg": MsgEmailUpdated})
}

func (ac *AccountController) Delete(c *fiber.Ctx) error {
	if err := ac.Service.DeleteAccount(c.UserContext(), c.Params("id")); err != nil {
		status := StatusFor(KindOf(err))
		if KindOf(err) == KindInternal {
			status = http.StatusBadRequest
		}
		return writeError(c, ac.Logger, err, status)
	}

	return c.SendStatus(http.StatusNoContent)
}
