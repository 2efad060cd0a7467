package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

type DeliveryServiceTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func (suite *DeliveryServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.DeliveryDriver{})
	suite.NoError(err)
	config.SetDB(db)
}

func (suite *DeliveryServiceTestSuite) TearDownTest() {
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (suite *DeliveryServiceTestSuite) createShippedOrder(withDriver bool) *models.Order {
	order := models.Order{
		ID:            utils.NewOrderID(),
		CustomerName:  "Maria Domingos",
		CustomerPhone: "923456789",
		Amount:        45000,
		PaymentMethod: models.PaymentCash,
		Status:        models.StatusShipped,
		DeliveryToken: utils.NewDeliveryToken(),
	}
	if withDriver {
		driver := models.DeliveryDriver{Name: "Carlos", Whatsapp: "924000111", Verified: true, Active: true}
		suite.NoError(suite.db.Create(&driver).Error)
		order.DriverID = &driver.ID
	}
	suite.NoError(suite.db.Create(&order).Error)
	return &order
}

func (suite *DeliveryServiceTestSuite) TestResolveDeliveryToken() {
	order := suite.createShippedOrder(true)

	view, err := ResolveDeliveryToken(order.DeliveryToken)
	suite.NoError(err)
	suite.Equal(order.ID, view.OrderID)
	suite.Equal("Maria Domingos", view.CustomerName)
	suite.Equal(models.StatusShipped, view.Status)
	suite.Equal(45000.0, view.Amount)
	suite.False(view.AlreadyDelivered)
	suite.Nil(view.DeliveredAt)
}

func (suite *DeliveryServiceTestSuite) TestResolveDeliveryToken_UnknownToken() {
	suite.createShippedOrder(true)

	_, err := ResolveDeliveryToken("not-a-real-token")
	suite.ErrorIs(err, ErrTokenNotFound)
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery() {
	order := suite.createShippedOrder(true)

	view, err := ConfirmDelivery(order.DeliveryToken)
	suite.NoError(err)
	suite.True(view.AlreadyDelivered)
	suite.Equal(models.StatusDelivered, view.Status)
	suite.NotNil(view.DeliveredAt)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Equal(models.StatusDelivered, stored.Status)
	suite.NotNil(stored.DeliveredAt)
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery_SecondCallKeepsFirstTimestamp() {
	order := suite.createShippedOrder(true)

	first, err := ConfirmDelivery(order.DeliveryToken)
	suite.NoError(err)
	firstStamp := *first.DeliveredAt

	time.Sleep(10 * time.Millisecond)

	second, err := ConfirmDelivery(order.DeliveryToken)
	suite.NoError(err)
	suite.True(second.AlreadyDelivered)
	suite.True(firstStamp.Equal(*second.DeliveredAt), "second confirmation must not restamp delivered_at")
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery_RequiresDriver() {
	order := suite.createShippedOrder(false)

	_, err := ConfirmDelivery(order.DeliveryToken)
	suite.ErrorIs(err, ErrNoDriverAssigned)

	var stored models.Order
	suite.NoError(suite.db.First(&stored, "id = ?", order.ID).Error)
	suite.Equal(models.StatusShipped, stored.Status)
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery_PaidWithDriver() {
	// Payment state and dispatch are independent; a PAGO order with a driver
	// assigned is still confirmable by token.
	order := suite.createShippedOrder(true)
	suite.NoError(suite.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.StatusPaid).Error)

	view, err := ConfirmDelivery(order.DeliveryToken)
	suite.NoError(err)
	suite.Equal(models.StatusDelivered, view.Status)
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery_CancelledOrderRejected() {
	order := suite.createShippedOrder(true)
	suite.NoError(suite.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.StatusCancelled).Error)

	_, err := ConfirmDelivery(order.DeliveryToken)
	suite.ErrorIs(err, ErrInvalidTransition)
}

func (suite *DeliveryServiceTestSuite) TestConfirmDelivery_UnknownToken() {
	_, err := ConfirmDelivery("bogus")
	suite.ErrorIs(err, ErrTokenNotFound)
}

func TestDeliveryServiceSuite(t *testing.T) {
	suite.Run(t, new(DeliveryServiceTestSuite))
}
