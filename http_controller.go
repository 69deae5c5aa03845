package signup

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AccountControllerRoutes holds the paths the controller mounts.
type AccountControllerRoutes struct {
	SignUp       string
	Authenticate string
	Verification string
}

// AccountController exposes the workflow over a JSON HTTP surface.
type AccountController struct {
	Debug    bool
	Logger   Logger
	Workflow *Workflow
	Routes   *AccountControllerRoutes
}

type AccountControllerOption func(*AccountController) *AccountController

func NewAccountController(opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger: defLogger{},
		Routes: &AccountControllerRoutes{
			SignUp:       "/signup",
			Authenticate: "/authenticate",
			Verification: "/verification",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Workflow == nil {
		panic("Missing Workflow in account controller...")
	}

	return c
}

func WithControllerWorkflow(w *Workflow) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Workflow = w
		return c
	}
}

func WithControllerLogger(l Logger) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Logger = l
		return c
	}
}

func WithControllerDebug(debug bool) AccountControllerOption {
	return func(c *AccountController) *AccountController {
		c.Debug = debug
		return c
	}
}

// RegisterAccountRoutes mounts the signup, login, and verification routes.
func RegisterAccountRoutes[T any](app router.Router[T], opts ...AccountControllerOption) {
	controller := NewAccountController(opts...)

	app.Post(controller.Routes.SignUp, controller.SignUpPost).
		SetName("signup.post")

	app.Post(controller.Routes.Authenticate, controller.AuthenticatePost).
		SetName("authenticate.post")

	app.Get(controller.Routes.Verification, controller.VerificationGet).
		SetName("verification.get")
}

func (a *AccountController) SignUpPost(ctx router.Context) error {
	payload := new(SignUpInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return a.fail(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=====================")
	}

	res, err := a.Workflow.SignUp(ctx.Context(), *payload)
	if err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, res)
}

func (a *AccountController) AuthenticatePost(ctx router.Context) error {
	payload := new(AuthenticateInput)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("authenticate parse payload", "error", err)
		return a.fail(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	res, err := a.Workflow.Authenticate(ctx.Context(), *payload)
	if err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, res)
}

func (a *AccountController) VerificationGet(ctx router.Context) error {
	token := ctx.Query("token", "")
	email := ctx.Query("email", "")

	account, err := a.Workflow.ConfirmVerification(ctx.Context(), token, email)
	if err != nil {
		return a.fail(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, router.ViewContext{
		"success": true,
		"message": fmt.Sprintf("%s verified successfully", account.Email),
		"email":   account.Email,
	})
}

func (a *AccountController) fail(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		a.Logger.Error("account controller error",
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"error", err,
		)
	} else {
		a.Logger.Error("account controller error", "error", err)
	}

	return ctx.JSON(StatusForError(err), router.ViewContext{
		"success": false,
		"message": PublicMessage(err),
	})
}
