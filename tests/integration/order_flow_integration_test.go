package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/controllers"
	"github.com/brijaao-ops/brilhoessenza-sub000/middleware"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
	"github.com/brijaao-ops/brilhoessenza-sub000/tests/testutil"
)

// OrderFlowIntegrationTestSuite walks an order end to end: storefront cart,
// checkout, back-office conversion and payment, courier registration and
// verification, assignment, and the public token confirmation.
type OrderFlowIntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	cfg    *config.Config
}

// SetupSuite runs once before all tests
func (suite *OrderFlowIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("DATABASE_URL", "sqlite://:memory:")
	os.Setenv("DRIVER_JWT_SECRET", "test-secret")
	os.Setenv("PUBLIC_ORIGIN", "http://localhost:8080")

	cfg, err := config.Load()
	suite.NoError(err)
	suite.cfg = cfg
}

func (suite *OrderFlowIntegrationTestSuite) SetupTest() {
	suite.db = testutil.OpenTestDB(suite.T())

	services.ResetCartsForTesting()
	services.SetSettingsCache(nil)
	_, err := services.InitSettingsCache()
	suite.NoError(err)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	services.SetOCRService(nil)

	admin := testutil.AdminProfile()

	router := gin.New()
	router.GET("/confirm/:token", controllers.ResolveConfirmation)
	router.POST("/confirm/:token", controllers.ConfirmReceipt)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", controllers.ListProducts)
		v1.POST("/carts", controllers.CreateCart)
		v1.POST("/carts/:id/items", controllers.AddCartItem)
		v1.POST("/carts/:id/checkout", controllers.CheckoutCart)
		v1.POST("/drivers/register", controllers.RegisterDriver)

		admin_ := v1.Group("/admin")
		admin_.Use(testutil.StaffAuthMiddleware(admin))
		{
			admin_.GET("/orders", middleware.RequireAreaView(models.AreaOrders), controllers.ListOrders)
			admin_.POST("/orders/:id/convert", controllers.ConvertToSale)
			admin_.POST("/orders/:id/confirm-payment", controllers.ConfirmPayment)
			admin_.POST("/orders/:id/assign-driver", controllers.AssignDriver)
			admin_.PATCH("/drivers/:id/verify", controllers.VerifyDriver)
		}
	}
	suite.router = router
}

func (suite *OrderFlowIntegrationTestSuite) TearDownTest() {
	services.SetSettingsCache(nil)
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *OrderFlowIntegrationTestSuite) createProduct(stock int) models.Product {
	category := models.Category{Name: "Perfumes", Slug: "perfumes", Active: true}
	suite.NoError(suite.db.Create(&category).Error)

	product := models.Product{
		Name:                  "Essenza Noite",
		Price:                 45000,
		Stock:                 stock,
		CategoryID:            category.ID,
		Gender:                models.GenderMasculine,
		DeliveryCommissionPct: 10,
	}
	suite.NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *OrderFlowIntegrationTestSuite) doJSON(method, path string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.NoError(err)
		reqBody = bytes.NewBuffer(raw)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reqBody)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	suite.router.ServeHTTP(w, req)

	var body map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

// registerDriver posts a multipart courier registration and returns the new
// driver's id.
func (suite *OrderFlowIntegrationTestSuite) registerDriver() uint {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	suite.NoError(writer.WriteField("name", "Carlos Mumbica"))
	suite.NoError(writer.WriteField("whatsapp", "924000111"))
	suite.NoError(writer.WriteField("transport_type", "mota"))
	for field, filename := range map[string]string{
		"id_front": "front.jpg",
		"id_back":  "back.jpg",
		"selfie":   "selfie.png",
	} {
		part, err := writer.CreateFormFile(field, filename)
		suite.NoError(err)
		_, err = part.Write([]byte("fake image bytes"))
		suite.NoError(err)
	}
	suite.NoError(writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers/register", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	driver := resp["data"].(map[string]interface{})["driver"].(map[string]interface{})
	suite.Equal(false, driver["verified"])
	return uint(driver["id"].(float64))
}

func (suite *OrderFlowIntegrationTestSuite) TestFullOrderLifecycle() {
	product := suite.createProduct(5)

	// Step 1: open a cart and add the product twice.
	w, body := suite.doJSON(http.MethodPost, "/api/v1/carts", nil)
	suite.Equal(http.StatusCreated, w.Code)
	cartID := body["data"].(map[string]interface{})["id"].(string)

	for i := 0; i < 2; i++ {
		w, _ = suite.doJSON(http.MethodPost, "/api/v1/carts/"+cartID+"/items",
			map[string]interface{}{"product_id": product.ID})
		suite.Equal(http.StatusOK, w.Code)
	}

	// Step 2: checkout creates a PEDIDO and the WhatsApp handoff link.
	w, body = suite.doJSON(http.MethodPost, "/api/v1/carts/"+cartID+"/checkout", map[string]interface{}{
		"customer_name":  "Maria Domingos",
		"phone":          "+244 923 456 789",
		"neighborhood":   "Maianga",
		"municipality":   "Luanda",
		"province":       "Luanda",
		"payment_method": "multicaixa",
	})
	suite.Equal(http.StatusCreated, w.Code)

	checkout := body["data"].(map[string]interface{})
	suite.Contains(checkout["whatsapp_link"].(string), "https://wa.me/")

	orderData := checkout["order"].(map[string]interface{})
	orderID := orderData["id"].(string)
	suite.Equal(string(models.StatusRequest), orderData["status"])
	suite.Equal(90000.0, orderData["amount"])
	suite.NotContains(orderData, "delivery_token", "token never leaves the server in order payloads")

	var stockAfter models.Product
	suite.NoError(suite.db.First(&stockAfter, product.ID).Error)
	suite.Equal(3, stockAfter.Stock)

	// Step 3: staff converts the request into a sale.
	w, body = suite.doJSON(http.MethodPost, "/api/v1/admin/orders/"+orderID+"/convert", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(string(models.StatusPending), body["data"].(map[string]interface{})["status"])
	suite.Equal("Admin Tester", body["data"].(map[string]interface{})["sold_by"])

	// Step 4: staff confirms payment.
	w, body = suite.doJSON(http.MethodPost, "/api/v1/admin/orders/"+orderID+"/confirm-payment", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(string(models.StatusPaid), body["data"].(map[string]interface{})["status"])

	// Step 5: a courier registers and staff verifies them.
	driverID := suite.registerDriver()

	w, body = suite.doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/admin/drivers/%d/verify", driverID),
		map[string]interface{}{"verified": true})
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(true, body["data"].(map[string]interface{})["verified"])

	// Step 6: assign the courier; a PAGO order keeps its payment status.
	w, body = suite.doJSON(http.MethodPost, "/api/v1/admin/orders/"+orderID+"/assign-driver",
		map[string]interface{}{"driver_id": driverID})
	suite.Equal(http.StatusOK, w.Code)

	assignData := body["data"].(map[string]interface{})
	suite.Contains(assignData["notify_link"].(string), "https://wa.me/924000111")
	suite.Equal(string(models.StatusPaid), assignData["order"].(map[string]interface{})["status"])

	// Step 7: the recipient confirms by token.
	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", orderID).Error)
	suite.NotEmpty(stored.DeliveryToken)

	w, body = suite.doJSON(http.MethodPost, "/confirm/"+stored.DeliveryToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	confirmData := body["data"].(map[string]interface{})
	suite.Equal(true, confirmData["already_delivered"])
	suite.Equal(string(models.StatusDelivered), confirmData["status"])

	suite.NoError(suite.db.First(&stored, "id = ?", orderID).Error)
	suite.Equal(models.StatusDelivered, stored.Status)
	suite.NotNil(stored.DeliveredAt)

	// Step 8: the whole order shows up in the back-office list.
	w, body = suite.doJSON(http.MethodGet, "/api/v1/admin/orders?status=DELIVERED", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Len(body["data"].([]interface{}), 1)
}

func (suite *OrderFlowIntegrationTestSuite) TestAssignUnverifiedDriverRejected() {
	product := suite.createProduct(5)

	w, body := suite.doJSON(http.MethodPost, "/api/v1/carts", nil)
	suite.Equal(http.StatusCreated, w.Code)
	cartID := body["data"].(map[string]interface{})["id"].(string)

	w, _ = suite.doJSON(http.MethodPost, "/api/v1/carts/"+cartID+"/items",
		map[string]interface{}{"product_id": product.ID})
	suite.Equal(http.StatusOK, w.Code)

	w, body = suite.doJSON(http.MethodPost, "/api/v1/carts/"+cartID+"/checkout", map[string]interface{}{
		"customer_name":  "Maria Domingos",
		"phone":          "923456789",
		"municipality":   "Luanda",
		"payment_method": "cash",
	})
	suite.Equal(http.StatusCreated, w.Code)
	orderID := body["data"].(map[string]interface{})["order"].(map[string]interface{})["id"].(string)

	// Registered but never verified.
	driverID := suite.registerDriver()

	w, body = suite.doJSON(http.MethodPost, "/api/v1/admin/orders/"+orderID+"/assign-driver",
		map[string]interface{}{"driver_id": driverID})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("DRIVER_NOT_ASSIGNABLE", body["error"].(map[string]interface{})["code"])
}

func TestOrderFlowIntegrationSuite(t *testing.T) {
	suite.Run(t, new(OrderFlowIntegrationTestSuite))
}
