package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/controllers"
	"github.com/brijaao-ops/brilhoessenza-sub000/middleware"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

func main() {
	log.Println("Starting Brilho Essenza API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliveryDriver{},
		&models.UserProfile{},
		&models.Slide{},
		&models.AppSetting{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitSettingsCache(); err != nil {
		log.Fatalf("Failed to initialize settings cache: %v", err)
	}

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)
	services.InitOCRService(cfg.OCRAPIURL, cfg.OCRAPIKey)
	services.InitCopywriterService(cfg.CopywriterAPIURL, cfg.CopywriterAPIKey)

	if err := ensureAdminProfile(cfg); err != nil {
		log.Fatalf("Failed to bootstrap admin profile: %v", err)
	}
	if err := seedCatalog(); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires all routes and middleware. Kept separate from main so
// tests can mount the exact production routing table.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.PublicOrigin, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Delivery confirmation deep links live outside /api/v1 so the QR URL
	// stays short and stable.
	router.GET("/confirm/:token", controllers.ResolveConfirmation)
	router.POST("/confirm/:token", controllers.ConfirmReceipt)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		// Public storefront
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.GET("/categories", controllers.ListActiveCategories)
		v1.GET("/slides", controllers.ListSlides)
		v1.GET("/settings", controllers.PublicSettings)

		// Anonymous carts and checkout
		v1.POST("/carts", controllers.CreateCart)
		v1.GET("/carts/:id", controllers.GetCart)
		v1.POST("/carts/:id/items", controllers.AddCartItem)
		v1.PATCH("/carts/:id/items/:productId", controllers.UpdateCartItem)
		v1.DELETE("/carts/:id/items/:productId", controllers.RemoveCartItem)
		v1.POST("/carts/:id/checkout", controllers.CheckoutCart)

		// Courier self-service
		v1.POST("/drivers/register", controllers.RegisterDriver)
		v1.POST("/drivers/login", controllers.DriverLogin)
		v1.GET("/drivers/:id/profile", controllers.DriverPublicProfile)

		// Courier session (JWT issued at login)
		driver := v1.Group("/driver")
		driver.Use(middleware.EnsureValidDriverToken(cfg))
		{
			driver.GET("/orders", controllers.DriverOrders)
			driver.GET("/orders/:id/qr", controllers.DriverOrderQR)
		}

		// Back office: Auth0 token plus a staff profile gate per area.
		admin := v1.Group("/admin")
		admin.Use(middleware.EnsureValidToken(cfg))
		admin.Use(middleware.LoadProfile())
		{
			admin.GET("/me", controllers.GetMyProfile)

			admin.GET("/products", middleware.RequireAreaView(models.AreaProducts), controllers.ListProducts)
			admin.POST("/products", middleware.RequireCapability(models.AreaProducts, models.CapCreate), controllers.CreateProduct)
			admin.PUT("/products/:id", middleware.RequireCapability(models.AreaProducts, models.CapEdit), controllers.UpdateProduct)
			admin.DELETE("/products/:id", middleware.RequireCapability(models.AreaProducts, models.CapDelete), controllers.DeleteProduct)
			admin.PATCH("/products/:id/stock", middleware.RequireCapability(models.AreaProducts, models.CapStock), controllers.AdjustStock)
			admin.POST("/products/copy-advice", middleware.RequireCapability(models.AreaProducts, models.CapEdit), controllers.ProductCopyAdvice)

			admin.GET("/categories", middleware.RequireAreaView(models.AreaProducts), controllers.ListCategories)
			admin.POST("/categories", middleware.RequireCapability(models.AreaProducts, models.CapCreate), controllers.CreateCategory)
			admin.PUT("/categories/:id", middleware.RequireCapability(models.AreaProducts, models.CapEdit), controllers.UpdateCategory)
			admin.DELETE("/categories/:id", middleware.RequireCapability(models.AreaProducts, models.CapDelete), controllers.DeleteCategory)

			admin.GET("/orders", middleware.RequireAreaView(models.AreaOrders), controllers.ListOrders)
			admin.GET("/orders/:id", middleware.RequireAreaView(models.AreaOrders), controllers.GetOrder)
			admin.POST("/orders/:id/convert", middleware.RequireCapability(models.AreaOrders, models.CapEdit), controllers.ConvertToSale)
			admin.POST("/orders/:id/confirm-payment", middleware.RequireAnyCapability(models.AreaSales, models.CapEdit, models.CapManage), controllers.ConfirmPayment)
			admin.POST("/orders/:id/assign-driver", middleware.RequireCapability(models.AreaOrders, models.CapEdit), controllers.AssignDriver)
			admin.POST("/orders/:id/cancel", middleware.RequireCapability(models.AreaOrders, models.CapEdit), controllers.CancelOrder)
			admin.POST("/orders/:id/force-delivered", middleware.RequireCapability(models.AreaOrders, models.CapManage), controllers.ForceDelivered)
			admin.DELETE("/orders/:id", middleware.RequireCapability(models.AreaOrders, models.CapDelete), controllers.DeleteOrder)

			admin.GET("/drivers", middleware.RequireAreaView(models.AreaDrivers), controllers.ListDrivers)
			admin.PATCH("/drivers/:id/verify", middleware.RequireCapability(models.AreaDrivers, models.CapManage), controllers.VerifyDriver)
			admin.PATCH("/drivers/:id/active", middleware.RequireCapability(models.AreaDrivers, models.CapManage), controllers.SetDriverActive)
			admin.DELETE("/drivers/:id", middleware.RequireCapability(models.AreaDrivers, models.CapManage), controllers.DeleteDriver)

			admin.GET("/slides", middleware.RequireAreaView(models.AreaSettings), controllers.ListSlides)
			admin.POST("/slides", middleware.RequireCapability(models.AreaSettings, models.CapEdit), controllers.CreateSlide)
			admin.PUT("/slides/:id", middleware.RequireCapability(models.AreaSettings, models.CapEdit), controllers.UpdateSlide)
			admin.DELETE("/slides/:id", middleware.RequireCapability(models.AreaSettings, models.CapEdit), controllers.DeleteSlide)

			admin.GET("/settings", middleware.RequireAreaView(models.AreaSettings), controllers.GetSettings)
			admin.PUT("/settings", middleware.RequireCapability(models.AreaSettings, models.CapEdit), controllers.UpdateSettings)

			admin.GET("/team", middleware.RequireAreaView(models.AreaTeam), controllers.ListProfiles)
			admin.POST("/team", middleware.RequireCapability(models.AreaTeam, models.CapManage), controllers.CreateProfile)
			admin.PUT("/team/:id", middleware.RequireCapability(models.AreaTeam, models.CapManage), controllers.UpdateProfile)

			admin.GET("/dashboard", middleware.RequireAreaView(models.AreaFinance), controllers.GetDashboard)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Brilho Essenza API is running",
	})
}

// ensureAdminProfile guarantees the configured owner account exists and keeps
// the admin role. Safe to run on every boot.
func ensureAdminProfile(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminAuth0ID == "" {
		log.Println("ADMIN_EMAIL/ADMIN_AUTH0_ID not set, skipping admin bootstrap")
		return nil
	}

	db := config.GetDB()
	var profile models.UserProfile
	err := db.Where("auth0_id = ?", cfg.AdminAuth0ID).First(&profile).Error
	if err == nil {
		if profile.Role != models.RoleAdmin || !profile.IsActive {
			return db.Model(&profile).Updates(map[string]interface{}{
				"role":      models.RoleAdmin,
				"is_active": true,
			}).Error
		}
		return nil
	}

	profile = models.UserProfile{
		Auth0ID:      cfg.AdminAuth0ID,
		Email:        strings.ToLower(cfg.AdminEmail),
		FullName:     "Administrador",
		Role:         models.RoleAdmin,
		Permissions:  models.PermissionMap{},
		IsFirstLogin: true,
		IsActive:     true,
	}
	if createErr := db.Create(&profile).Error; createErr != nil {
		return createErr
	}
	log.Printf("Bootstrapped admin profile for %s", cfg.AdminEmail)
	return nil
}

// seedCatalog inserts a starter category and a few perfumes when the catalog
// is completely empty, so a fresh deployment has something to show.
func seedCatalog() error {
	db := config.GetDB()

	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.Category{Name: "Perfumes", Slug: "perfumes", Active: true}
	if err := db.Create(&category).Error; err != nil {
		return err
	}

	sale := 38500.0
	products := []models.Product{
		{
			Name:        "Essenza Noite",
			Description: "Fragrância intensa com notas amadeiradas para a noite.",
			Price:       45000, SalePrice: &sale, Stock: 20,
			CategoryID: category.ID, Gender: models.GenderMasculine, BestSeller: true,
			TopNotes: "bergamota", HeartNotes: "cedro", BaseNotes: "âmbar",
			DeliveryCommissionPct: 5,
		},
		{
			Name:        "Essenza Flor",
			Description: "Bouquet floral leve para o dia a dia.",
			Price:       39000, Stock: 25,
			CategoryID: category.ID, Gender: models.GenderFeminine,
			TopNotes: "pêra", HeartNotes: "jasmim", BaseNotes: "almíscar",
			DeliveryCommissionPct: 5,
		},
		{
			Name:        "Essenza Pura",
			Description: "Perfil cítrico fresco, unissexo.",
			Price:       32000, Stock: 30,
			CategoryID: category.ID, Gender: models.GenderUnisex,
			TopNotes: "limão", HeartNotes: "chá verde", BaseNotes: "vetiver",
			DeliveryCommissionPct: 5,
		},
	}

	if err := db.Create(&products).Error; err != nil {
		return err
	}
	log.Printf("Seeded catalog with %d products", len(products))
	return nil
}
