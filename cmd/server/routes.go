package main

import (
	"github.com/repairpos/backend/internal/interfaces/http/handler"
	"github.com/repairpos/backend/internal/interfaces/http/middleware"
	"github.com/repairpos/backend/internal/interfaces/http/router"
)

// handlers bundles every HTTP handler of the API
type handlers struct {
	system       *handler.SystemHandler
	auth         *handler.AuthHandler
	identity     *handler.IdentityHandler
	products     *handler.ProductHandler
	inventory    *handler.InventoryHandler
	crm          *handler.CRMHandler
	sales        *handler.SaleHandler
	orders       *handler.ServiceOrderHandler
	kanban       *handler.KanbanHandler
	diagnostic   *handler.DiagnosticHandler
	finance      *handler.FinanceHandler
	reports      *handler.ReportHandler
	integrations *handler.IntegrationHandler
	messages     *handler.MessageHandler
	listings     *handler.ListingHandler
	gamification *handler.GamificationHandler
}

// publicPaths skip the JWT middleware
var publicPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/system/info",
}

func registerRoutes(r *router.Router, h handlers) {
	// Auth. Login and refresh are public, the rest only needs a valid token
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", h.auth.Login)
	authRoutes.POST("/refresh", h.auth.Refresh)
	authRoutes.POST("/logout", h.auth.Logout)
	authRoutes.GET("/me", h.auth.Me)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.system.GetSystemInfo)

	// Identity
	branchRoutes := router.NewDomainGroup("branches", "/branches").Use(middleware.RequireResource("branch"))
	branchRoutes.POST("", h.identity.CreateBranch)
	branchRoutes.GET("", h.identity.ListBranches)
	branchRoutes.GET("/:id", h.identity.GetBranch)
	branchRoutes.PUT("/:id", h.identity.UpdateBranch)
	branchRoutes.POST("/:id/activate", h.identity.ActivateBranch)
	branchRoutes.POST("/:id/deactivate", h.identity.DeactivateBranch)
	branchRoutes.DELETE("/:id", h.identity.DeleteBranch)

	roleRoutes := router.NewDomainGroup("roles", "/roles").Use(middleware.RequireResource("role"))
	roleRoutes.POST("", h.identity.CreateRole)
	roleRoutes.GET("", h.identity.ListRoles)
	roleRoutes.GET("/:id", h.identity.GetRole)
	roleRoutes.PUT("/:id", h.identity.UpdateRole)
	roleRoutes.PUT("/:id/permissions", h.identity.SetRolePermissions)
	roleRoutes.DELETE("/:id", h.identity.DeleteRole)

	userRoutes := router.NewDomainGroup("users", "/users").Use(middleware.RequireResource("user"))
	userRoutes.POST("", h.identity.CreateUser)
	userRoutes.GET("", h.identity.ListUsers)
	userRoutes.GET("/:id", h.identity.GetUser)
	userRoutes.PUT("/:id", h.identity.UpdateUser)
	userRoutes.PUT("/:id/roles", h.identity.AssignRoles)
	userRoutes.PUT("/:id/password", h.identity.ChangePassword)
	userRoutes.POST("/:id/activate", h.identity.ActivateUser)
	userRoutes.POST("/:id/deactivate", h.identity.DeactivateUser)

	// Catalog
	productRoutes := router.NewDomainGroup("products", "/products").Use(middleware.RequireResource("product"))
	productRoutes.POST("", h.products.Create)
	productRoutes.GET("", h.products.List)
	productRoutes.POST("/import", h.products.Import)
	productRoutes.GET("/:id", h.products.GetByID)
	productRoutes.PUT("/:id", h.products.Update)
	productRoutes.PUT("/:id/price", h.products.ChangePrice)
	productRoutes.GET("/:id/price-history", h.finance.PriceHistory)
	productRoutes.POST("/:id/activate", h.products.Activate)
	productRoutes.POST("/:id/deactivate", h.products.Deactivate)
	productRoutes.DELETE("/:id", h.products.Delete)
	productRoutes.POST("/:id/variations", h.products.AddVariation)
	productRoutes.PUT("/:id/variations/:variation_id", h.products.UpdateVariation)
	productRoutes.DELETE("/:id/variations/:variation_id", h.products.RemoveVariation)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory").Use(middleware.RequireResource("inventory"))
	inventoryRoutes.GET("/stock", h.inventory.ListStock)
	inventoryRoutes.GET("/stock/:branch_id/:product_id", h.inventory.GetStock)
	inventoryRoutes.POST("/adjustments", h.inventory.Adjust)
	inventoryRoutes.PUT("/minimums", h.inventory.SetMinQuantity)
	inventoryRoutes.POST("/transfers", h.inventory.Transfer)
	inventoryRoutes.GET("/movements", h.inventory.ListMovements)

	// CRM
	customerRoutes := router.NewDomainGroup("customers", "/customers").Use(middleware.RequireResource("customer"))
	customerRoutes.POST("", h.crm.CreateCustomer)
	customerRoutes.GET("", h.crm.ListCustomers)
	customerRoutes.GET("/:id", h.crm.GetCustomer)
	customerRoutes.GET("/:id/history", h.crm.CustomerHistory)
	customerRoutes.PUT("/:id", h.crm.UpdateCustomer)
	customerRoutes.DELETE("/:id", h.crm.DeleteCustomer)

	leadRoutes := router.NewDomainGroup("leads", "/leads").Use(middleware.RequireResource("lead"))
	leadRoutes.POST("", h.crm.CreateLead)
	leadRoutes.GET("", h.crm.ListLeads)
	leadRoutes.GET("/:id", h.crm.GetLead)
	leadRoutes.PUT("/:id", h.crm.UpdateLead)
	leadRoutes.PUT("/:id/status", h.crm.ChangeLeadStatus)
	leadRoutes.POST("/:id/convert", h.crm.ConvertLead)

	// Point of sale
	saleRoutes := router.NewDomainGroup("sales", "/sales").Use(middleware.RequireResource("sale"))
	saleRoutes.POST("", h.sales.Create)
	saleRoutes.GET("", h.sales.List)
	saleRoutes.GET("/:id", h.sales.GetByID)
	saleRoutes.POST("/:id/cancel", h.sales.Cancel)
	saleRoutes.GET("/:id/receipt", h.sales.Receipt)
	saleRoutes.POST("/:id/returns", h.sales.CreateReturn)

	returnRoutes := router.NewDomainGroup("sale-returns", "/sale-returns").Use(middleware.RequireResource("sale"))
	returnRoutes.GET("", h.sales.ListReturns)
	returnRoutes.GET("/:id", h.sales.GetReturn)

	// Repair workbench
	orderRoutes := router.NewDomainGroup("repairs", "/repairs").Use(middleware.RequireResource("repair"))
	orderRoutes.POST("", h.orders.Create)
	orderRoutes.GET("", h.orders.List)
	orderRoutes.GET("/stats/status", h.orders.CountByStatus)
	orderRoutes.GET("/:id", h.orders.GetByID)
	orderRoutes.PUT("/:id", h.orders.Update)
	orderRoutes.PUT("/:id/status", h.orders.ChangeStatus)
	orderRoutes.PUT("/:id/technician", h.orders.AssignTechnician)
	orderRoutes.POST("/:id/parts", h.orders.AddPart)
	orderRoutes.POST("/:id/photos", h.orders.UploadPhoto)
	orderRoutes.GET("/:id/photos", h.orders.ListPhotos)
	orderRoutes.GET("/:id/history", h.orders.History)
	orderRoutes.GET("/:id/print", h.orders.Print)

	kanbanRoutes := router.NewDomainGroup("kanban", "/kanban").Use(middleware.RequireResource("kanban"))
	kanbanRoutes.GET("/board", h.kanban.Board)
	kanbanRoutes.POST("/columns", h.kanban.CreateColumn)
	kanbanRoutes.GET("/columns", h.kanban.ListColumns)
	kanbanRoutes.PUT("/columns/order", h.kanban.ReorderColumns)
	kanbanRoutes.PUT("/columns/:id", h.kanban.UpdateColumn)
	kanbanRoutes.DELETE("/columns/:id", h.kanban.DeleteColumn)
	kanbanRoutes.POST("/cards", h.kanban.CreateCard)
	kanbanRoutes.GET("/cards/:id", h.kanban.GetCard)
	kanbanRoutes.PUT("/cards/:id", h.kanban.UpdateCard)
	kanbanRoutes.DELETE("/cards/:id", h.kanban.DeleteCard)
	kanbanRoutes.POST("/cards/:id/move", h.kanban.MoveCard)

	diagnosticRoutes := router.NewDomainGroup("diagnostic", "/diagnostic").Use(middleware.RequireResource("diagnostic"))
	diagnosticRoutes.POST("/nodes", h.diagnostic.CreateNode)
	diagnosticRoutes.GET("/nodes", h.diagnostic.ListNodes)
	diagnosticRoutes.GET("/nodes/:id", h.diagnostic.GetNode)
	diagnosticRoutes.PUT("/nodes/:id", h.diagnostic.UpdateNode)
	diagnosticRoutes.DELETE("/nodes/:id", h.diagnostic.DeleteNode)
	diagnosticRoutes.POST("/nodes/:id/options", h.diagnostic.AddOption)
	diagnosticRoutes.PUT("/nodes/:id/options/:option_id", h.diagnostic.UpdateOption)
	diagnosticRoutes.DELETE("/nodes/:id/options/:option_id", h.diagnostic.RemoveOption)
	diagnosticRoutes.GET("/trees/:category", h.diagnostic.Tree)
	diagnosticRoutes.GET("/trees/:category/start", h.diagnostic.Start)
	diagnosticRoutes.POST("/answer", h.diagnostic.Answer)
	diagnosticRoutes.POST("/walk", h.diagnostic.Walk)

	// Finance
	accountRoutes := router.NewDomainGroup("finance", "/finance").Use(middleware.RequireResource("finance"))
	accountRoutes.POST("/receivables", h.finance.CreateReceivable)
	accountRoutes.GET("/receivables", h.finance.ListReceivables)
	accountRoutes.GET("/receivables/:id", h.finance.GetReceivable)
	accountRoutes.POST("/receivables/:id/payments", h.finance.RecordReceivablePayment)
	accountRoutes.POST("/receivables/:id/cancel", h.finance.CancelReceivable)
	accountRoutes.POST("/payables", h.finance.CreatePayable)
	accountRoutes.GET("/payables", h.finance.ListPayables)
	accountRoutes.GET("/payables/:id", h.finance.GetPayable)
	accountRoutes.POST("/payables/:id/payments", h.finance.RecordPayablePayment)
	accountRoutes.POST("/payables/:id/cancel", h.finance.CancelPayable)

	commissionRoutes := router.NewDomainGroup("commissions", "/finance").Use(middleware.RequireResource("commission"))
	commissionRoutes.POST("/commission-rules", h.finance.CreateCommissionRule)
	commissionRoutes.GET("/commission-rules", h.finance.ListCommissionRules)
	commissionRoutes.GET("/commission-rules/:id", h.finance.GetCommissionRule)
	commissionRoutes.PUT("/commission-rules/:id", h.finance.UpdateCommissionRule)
	commissionRoutes.DELETE("/commission-rules/:id", h.finance.DeleteCommissionRule)
	commissionRoutes.GET("/commissions", h.finance.ListCommissions)
	commissionRoutes.GET("/commissions/summary", h.finance.CommissionSummary)
	commissionRoutes.POST("/commissions/:id/pay", h.finance.MarkCommissionPaid)
	commissionRoutes.POST("/commissions/:id/cancel", h.finance.CancelCommission)

	reimbursementRoutes := router.NewDomainGroup("reimbursements", "/finance/reimbursements").Use(middleware.RequireResource("reimbursement"))
	reimbursementRoutes.POST("", h.finance.CreateReimbursement)
	reimbursementRoutes.GET("", h.finance.ListReimbursements)
	reimbursementRoutes.GET("/:id", h.finance.GetReimbursement)
	reimbursementRoutes.POST("/:id/approve", h.finance.ApproveReimbursement)
	reimbursementRoutes.POST("/:id/reject", h.finance.RejectReimbursement)
	reimbursementRoutes.POST("/:id/pay", h.finance.PayReimbursement)

	pricingRoutes := router.NewDomainGroup("pricing", "/pricing").Use(middleware.RequireResource("pricing"))
	pricingRoutes.POST("/rules", h.finance.CreatePricingRule)
	pricingRoutes.GET("/rules", h.finance.ListPricingRules)
	pricingRoutes.GET("/rules/:id", h.finance.GetPricingRule)
	pricingRoutes.PUT("/rules/:id", h.finance.UpdatePricingRule)
	pricingRoutes.DELETE("/rules/:id", h.finance.DeletePricingRule)
	pricingRoutes.POST("/quote", h.finance.Quote)

	// Reports
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard").Use(middleware.RequireResource("dashboard"))
	dashboardRoutes.GET("/summary", h.reports.Dashboard)

	reportRoutes := router.NewDomainGroup("reports", "/reports").Use(middleware.RequireResource("report"))
	reportRoutes.GET("/sales", h.reports.Sales)
	reportRoutes.GET("/repairs", h.reports.Repairs)
	reportRoutes.GET("/top-products", h.reports.TopProducts)

	// Outside services
	integrationRoutes := router.NewDomainGroup("integrations", "/integrations").Use(middleware.RequireResource("integration"))
	integrationRoutes.GET("", h.integrations.List)
	integrationRoutes.GET("/spotify/now-playing", h.integrations.NowPlaying)
	integrationRoutes.GET("/:provider", h.integrations.Get)
	integrationRoutes.PUT("/:provider", h.integrations.Upsert)
	integrationRoutes.PUT("/:provider/enabled", h.integrations.SetEnabled)
	integrationRoutes.POST("/:provider/test", h.integrations.Test)
	integrationRoutes.POST("/:provider/proxy", h.integrations.Proxy)

	messageRoutes := router.NewDomainGroup("messages", "/messages").Use(middleware.RequireResource("message"))
	messageRoutes.POST("", h.messages.Send)
	messageRoutes.GET("", h.messages.List)
	messageRoutes.GET("/:id", h.messages.Get)

	listingRoutes := router.NewDomainGroup("marketplace", "/marketplace/listings").Use(middleware.RequireResource("marketplace"))
	listingRoutes.POST("", h.listings.Create)
	listingRoutes.GET("", h.listings.List)
	listingRoutes.GET("/:id", h.listings.Get)
	listingRoutes.PUT("/:id", h.listings.Update)
	listingRoutes.PUT("/:id/status", h.listings.ChangeStatus)
	listingRoutes.POST("/:id/sync", h.listings.Sync)
	listingRoutes.DELETE("/:id", h.listings.Delete)

	gamificationRoutes := router.NewDomainGroup("gamification", "/gamification").Use(middleware.RequireResource("gamification"))
	gamificationRoutes.GET("/me", h.gamification.MyProgress)
	gamificationRoutes.GET("/leaderboard", h.gamification.Leaderboard)
	gamificationRoutes.POST("/points", h.gamification.Award)
	gamificationRoutes.GET("/users/:id/points", h.gamification.ListEntries)
	gamificationRoutes.GET("/users/:id/progress", h.gamification.Progress)
	gamificationRoutes.POST("/badges", h.gamification.CreateBadge)
	gamificationRoutes.GET("/badges", h.gamification.ListBadges)
	gamificationRoutes.GET("/badges/:id", h.gamification.GetBadge)
	gamificationRoutes.PUT("/badges/:id", h.gamification.UpdateBadge)
	gamificationRoutes.DELETE("/badges/:id", h.gamification.DeleteBadge)

	r.Register(authRoutes).
		Register(systemRoutes).
		Register(branchRoutes).
		Register(roleRoutes).
		Register(userRoutes).
		Register(productRoutes).
		Register(inventoryRoutes).
		Register(customerRoutes).
		Register(leadRoutes).
		Register(saleRoutes).
		Register(returnRoutes).
		Register(orderRoutes).
		Register(kanbanRoutes).
		Register(diagnosticRoutes).
		Register(accountRoutes).
		Register(commissionRoutes).
		Register(reimbursementRoutes).
		Register(pricingRoutes).
		Register(dashboardRoutes).
		Register(reportRoutes).
		Register(integrationRoutes).
		Register(messageRoutes).
		Register(listingRoutes).
		Register(gamificationRoutes)
}
