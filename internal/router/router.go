package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"consignparts/internal/auth"
	"consignparts/internal/config"
	"consignparts/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	consignerHandler *handler.ConsignerHandler,
	partHandler *handler.PartHandler,
	invoiceHandler *handler.InvoiceHandler,
	importHandler *handler.ImportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Consigner self-service
	secured.GET("/my-parts", partHandler.MyParts)

	// Admin routes
	admin := secured.Group("/admin", handler.AdminOnly)

	admin.GET("/consigners", consignerHandler.ListConsigners)
	admin.POST("/consigners", consignerHandler.CreateConsigner)
	admin.GET("/consigners/:id", consignerHandler.GetConsigner)
	admin.PUT("/consigners/:id", consignerHandler.UpdateConsignerField)
	admin.DELETE("/consigners/:id", consignerHandler.DeleteConsigner)
	admin.GET("/consigners/:id/parts", partHandler.ConsignerParts)

	admin.GET("/parts", partHandler.ListParts)
	admin.POST("/parts", partHandler.CreatePart)
	admin.PUT("/parts/:id", partHandler.UpdatePartField)
	admin.DELETE("/parts/:id", partHandler.DeletePart)

	admin.POST("/generate-invoice", invoiceHandler.GenerateInvoice)
	admin.GET("/invoice-info", invoiceHandler.GetBillingInfo)
	admin.PUT("/invoice-info", invoiceHandler.UpdateBillingInfo)

	admin.POST("/imports/parts", importHandler.ImportParts)
	admin.POST("/imports/consigners", importHandler.ImportConsigners)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
