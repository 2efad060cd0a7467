package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

func permissionRouter(profile *models.UserProfile, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/guarded",
		func(c *gin.Context) {
			if profile != nil {
				c.Set("profile", profile)
			}
			c.Next()
		},
		handler,
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	return router
}

func doGuarded(router *gin.Engine) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRequireCapability_AdminAlwaysPasses(t *testing.T) {
	admin := &models.UserProfile{Role: models.RoleAdmin, IsActive: true}
	router := permissionRouter(admin, RequireCapability(models.AreaFinance, models.CapManage))

	w, _ := doGuarded(router)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapability_EmployeeGranted(t *testing.T) {
	employee := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaOrders: {models.CapEdit: true}},
	}
	router := permissionRouter(employee, RequireCapability(models.AreaOrders, models.CapEdit))

	w, _ := doGuarded(router)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapability_EmployeeDenied(t *testing.T) {
	employee := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaOrders: {models.CapView: true}},
	}
	router := permissionRouter(employee, RequireCapability(models.AreaOrders, models.CapDelete))

	w, body := doGuarded(router)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error"].(map[string]interface{})["code"])
}

func TestRequireCapability_MissingProfile(t *testing.T) {
	router := permissionRouter(nil, RequireCapability(models.AreaOrders, models.CapView))

	w, body := doGuarded(router)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_PROFILE", body["error"].(map[string]interface{})["code"])
}

func TestRequireAnyCapability(t *testing.T) {
	manager := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaSales: {models.CapManage: true}},
	}
	editor := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaSales: {models.CapEdit: true}},
	}
	viewer := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaSales: {models.CapView: true}},
	}

	guard := RequireAnyCapability(models.AreaSales, models.CapEdit, models.CapManage)

	w, _ := doGuarded(permissionRouter(manager, guard))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doGuarded(permissionRouter(editor, guard))
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := doGuarded(permissionRouter(viewer, guard))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["error"].(map[string]interface{})["code"])
}

func TestRequireAreaView(t *testing.T) {
	employee := &models.UserProfile{
		Role:        models.RoleEmployee,
		Permissions: models.PermissionMap{models.AreaProducts: {models.CapStock: true}},
	}

	w, _ := doGuarded(permissionRouter(employee, RequireAreaView(models.AreaProducts)))
	assert.Equal(t, http.StatusOK, w.Code, "any granted capability makes the area visible")

	w, _ = doGuarded(permissionRouter(employee, RequireAreaView(models.AreaFinance)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
