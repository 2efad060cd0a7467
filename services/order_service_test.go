package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (suite *OrderServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.DeliveryDriver{})
	suite.NoError(err)
	config.SetDB(db)
}

func (suite *OrderServiceTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *OrderServiceTestSuite) createOrder(status models.OrderStatus) *models.Order {
	order := models.Order{
		ID:            utils.NewOrderID(),
		CustomerName:  "Maria Domingos",
		CustomerPhone: "923456789",
		Municipality:  "Luanda",
		Amount:        45000,
		PaymentMethod: models.PaymentCash,
		Status:        status,
		DeliveryToken: utils.NewDeliveryToken(),
		Items: []models.OrderItem{
			{ProductName: "Essenza Noite", UnitPrice: 45000, Quantity: 1, CommissionPct: 10},
		},
	}
	suite.NoError(suite.db.Create(&order).Error)
	return &order
}

func (suite *OrderServiceTestSuite) createDriver(verified, active bool) *models.DeliveryDriver {
	driver := models.DeliveryDriver{
		Name:     "Carlos Mumbica",
		Whatsapp: "924000111",
		Verified: verified,
		Active:   active,
	}
	suite.NoError(suite.db.Create(&driver).Error)
	return &driver
}

func (suite *OrderServiceTestSuite) TestConvertToSale() {
	order := suite.createOrder(models.StatusRequest)

	converted, err := ConvertToSale(order.ID, "Ana Staff")
	suite.NoError(err)
	suite.Equal(models.StatusPending, converted.Status)
	suite.Equal("Ana Staff", converted.SoldBy)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Equal(models.StatusPending, stored.Status)
	suite.Equal("Ana Staff", stored.SoldBy)
}

func (suite *OrderServiceTestSuite) TestConvertToSale_Idempotent() {
	order := suite.createOrder(models.StatusRequest)

	_, err := ConvertToSale(order.ID, "Ana Staff")
	suite.NoError(err)

	// Re-applying the same transition is a no-op success.
	again, err := ConvertToSale(order.ID, "Outro Staff")
	suite.NoError(err)
	suite.Equal(models.StatusPending, again.Status)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Equal("Ana Staff", stored.SoldBy, "no-op repeat must not overwrite the audit trail")
}

func (suite *OrderServiceTestSuite) TestConfirmPayment_RequiresPending() {
	order := suite.createOrder(models.StatusRequest)

	_, err := ConfirmPayment(order.ID, "Ana Staff")
	suite.ErrorIs(err, ErrInvalidTransition)

	_, err = ConvertToSale(order.ID, "Ana Staff")
	suite.NoError(err)

	paid, err := ConfirmPayment(order.ID, "Ana Staff")
	suite.NoError(err)
	suite.Equal(models.StatusPaid, paid.Status)
	suite.Equal("Ana Staff", paid.ValidatedBy)
}

func (suite *OrderServiceTestSuite) TestAssignDriver_RejectsUnverified() {
	order := suite.createOrder(models.StatusPending)
	unverified := suite.createDriver(false, true)

	_, _, err := AssignDriver(order.ID, unverified.ID)
	suite.ErrorIs(err, ErrDriverNotAssignable)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Nil(stored.DriverID)
	suite.Equal(models.StatusPending, stored.Status)
}

func (suite *OrderServiceTestSuite) TestAssignDriver_RejectsInactive() {
	order := suite.createOrder(models.StatusPending)
	inactive := suite.createDriver(true, false)

	_, _, err := AssignDriver(order.ID, inactive.ID)
	suite.ErrorIs(err, ErrDriverNotAssignable)
}

func (suite *OrderServiceTestSuite) TestAssignDriver_AdvancesToShipped() {
	order := suite.createOrder(models.StatusPending)
	driver := suite.createDriver(true, true)

	assigned, link, err := AssignDriver(order.ID, driver.ID)
	suite.NoError(err)
	suite.Equal(models.StatusShipped, assigned.Status)
	suite.Equal(driver.ID, *assigned.DriverID)
	suite.Contains(link, "https://wa.me/"+driver.Whatsapp)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Equal(models.StatusShipped, stored.Status)
}

func (suite *OrderServiceTestSuite) TestAssignDriver_PaidOrderKeepsStatus() {
	// Payment confirmation and courier assignment are independent; assigning
	// a driver to a PAGO order must not clobber the payment state.
	order := suite.createOrder(models.StatusPaid)
	driver := suite.createDriver(true, true)

	assigned, _, err := AssignDriver(order.ID, driver.ID)
	suite.NoError(err)
	suite.Equal(models.StatusPaid, assigned.Status)
	suite.Equal(driver.ID, *assigned.DriverID)
}

func (suite *OrderServiceTestSuite) TestAssignDriver_RejectsTerminalStates() {
	driver := suite.createDriver(true, true)

	for _, status := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		order := suite.createOrder(status)
		_, _, err := AssignDriver(order.ID, driver.ID)
		suite.ErrorIs(err, ErrInvalidTransition, string(status))
	}
}

func (suite *OrderServiceTestSuite) TestAssignDriver_UnknownDriver() {
	order := suite.createOrder(models.StatusPending)
	_, _, err := AssignDriver(order.ID, 9999)
	suite.ErrorIs(err, ErrDriverNotFound)
}

func (suite *OrderServiceTestSuite) TestCancelOrder() {
	order := suite.createOrder(models.StatusShipped)

	cancelled, err := CancelOrder(order.ID)
	suite.NoError(err)
	suite.Equal(models.StatusCancelled, cancelled.Status)

	delivered := suite.createOrder(models.StatusDelivered)
	_, err = CancelOrder(delivered.ID)
	suite.ErrorIs(err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestForceDelivered_RequiresReason() {
	order := suite.createOrder(models.StatusShipped)
	driver := suite.createDriver(true, true)
	suite.NoError(suite.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("driver_id", driver.ID).Error)

	_, err := ForceDelivered(order.ID, "Ana Staff", "")
	suite.ErrorIs(err, ErrReasonRequired)

	forced, err := ForceDelivered(order.ID, "Ana Staff", "cliente confirmou por telefone")
	suite.NoError(err)
	suite.Equal(models.StatusDelivered, forced.Status)
	suite.Equal("Ana Staff", forced.DeliveredBy)
	suite.Equal("cliente confirmou por telefone", forced.DeliveryNote)
	suite.NotNil(forced.DeliveredAt)
}

func (suite *OrderServiceTestSuite) TestForceDelivered_RequiresDriver() {
	order := suite.createOrder(models.StatusShipped)
	_, err := ForceDelivered(order.ID, "Ana Staff", "motivo qualquer")
	suite.ErrorIs(err, ErrDriverNotAssignable)
}

func (suite *OrderServiceTestSuite) TestDeleteOrder_RemovesItems() {
	order := suite.createOrder(models.StatusCancelled)

	suite.NoError(DeleteOrder(order.ID))

	var orders, items int64
	suite.db.Model(&models.Order{}).Count(&orders)
	suite.db.Model(&models.OrderItem{}).Count(&items)
	suite.Equal(int64(0), orders)
	suite.Equal(int64(0), items)

	suite.ErrorIs(DeleteOrder(order.ID), ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestDriverCommission() {
	order := &models.Order{
		Items: []models.OrderItem{
			{UnitPrice: 45000, Quantity: 2, CommissionPct: 10}, // 9000
			{UnitPrice: 30000, Quantity: 1, CommissionPct: 5},  // 1500
			{UnitPrice: 20000, Quantity: 1, CommissionPct: 0},
		},
	}
	suite.InDelta(10500, DriverCommission(order), 0.001)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
