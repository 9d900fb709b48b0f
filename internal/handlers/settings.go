package handlers

import (
	"github.com/dancedesk/dancedesk/internal/middleware"
	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingHandler struct {
	settingService *services.SettingService
}

func NewSettingHandler(db *gorm.DB) *SettingHandler {
	return &SettingHandler{
		settingService: services.NewSettingService(db),
	}
}

// GetAll returns every setting grouped flat, ordered by category
// GET /api/settings
func (h *SettingHandler) GetAll(c *gin.Context) {
	settings, err := h.settingService.GetAll()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// GetCategory returns the settings of one category
// GET /api/settings/:category
func (h *SettingHandler) GetCategory(c *gin.Context) {
	settings, err := h.settingService.GetByCategory(c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// GetKey returns a single setting
// GET /api/settings/:category/:key
func (h *SettingHandler) GetKey(c *gin.Context) {
	setting, err := h.settingService.GetByKey(c.Param("category"), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, setting)
}

type updateSettingRequest struct {
	Value interface{} `json:"value"`
}

// UpdateKey coerces and stores one setting value
// PUT /api/settings/:category/:key
func (h *SettingHandler) UpdateKey(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	setting, err := h.settingService.Update(
		c.Param("category"), c.Param("key"), req.Value, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, setting)
}

// UpdateCategory applies a batch of values within one category
// PUT /api/settings/:category
func (h *SettingHandler) UpdateCategory(c *gin.Context) {
	var values map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(values) == 0 {
		response.BadRequest(c, "no settings supplied")
		return
	}

	settings, err := h.settingService.UpdateCategory(
		c.Param("category"), values, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

// UpdateAll applies a batch of values spanning several categories,
// shaped as {category: {key: value}}
// PUT /api/settings
func (h *SettingHandler) UpdateAll(c *gin.Context) {
	var values map[string]map[string]interface{}
	if err := c.ShouldBindJSON(&values); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(values) == 0 {
		response.BadRequest(c, "no settings supplied")
		return
	}

	settings, err := h.settingService.UpdateAll(values, middleware.GetUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}
