package echoServer

import (
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/admin"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/auth"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/report"
	"github.com/Rahulstark2/librarymanagement/app/echoServer/controller/transaction"
	jwtutil "github.com/Rahulstark2/librarymanagement/util/jwt"
)

type C struct {
	Auth        *auth.Controller
	Transaction *transaction.Controller
	Admin       *admin.Controller
	Report      *report.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api/v1")
	pub.POST("/user/register", c.Auth.Register)
	pub.POST("/user/userlogin", c.Auth.Login)
	pub.POST("/admin/adminlogin", c.Auth.AdminLogin)

	// Auth
	authed := e.Group("/api/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		// HS256 only, exp required; stores a jwtutil.Principal under "user"
		ParseTokenFunc: func(_ echo.Context, auth string) (interface{}, error) {
			return jwtutil.ParseAuth(auth, c.JWTSecret)
		},
		TokenLookup: "header:Authorization:Bearer ",
		ErrorHandler: func(ctx echo.Context, err error) error {
			slog.Warn("auth", "err", err, "req_id", ctx.Response().Header().Get(echo.HeaderXRequestID), "ip", ctx.RealIP())
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		},
	}))
	authed.Use(Principal())

	// Transactions
	tx := authed.Group("/transaction")
	tx.POST("/issue", c.Transaction.Issue)
	tx.POST("/return", c.Transaction.Return)
	tx.POST("/fetch-issue-date", c.Transaction.FetchIssueDate)
	tx.POST("/calculate-fine", c.Transaction.CalculateFine)
	tx.POST("/pay-fine", c.Transaction.PayFine)
	tx.GET("/search", c.Transaction.Search)

	// Reports
	rep := authed.Group("/reports")
	rep.GET("/active-issues", c.Report.ActiveIssues)
	rep.GET("/overdue-returns", c.Report.OverdueReturns)
	rep.GET("/books", c.Report.Books)
	rep.GET("/movies", c.Report.Movies)
	rep.GET("/active-memberships", c.Report.ActiveMemberships, RequireAdmin())

	// Admin endpoints
	adm := authed.Group("/admin", RequireAdmin())
	adm.POST("/addmembership", c.Admin.AddMembership)
	adm.PUT("/updatemembership", c.Admin.UpdateMembership)
	adm.POST("/addbookmovie", c.Admin.AddItem)
	adm.PUT("/updatebookmovie", c.Admin.UpdateItem)
}
