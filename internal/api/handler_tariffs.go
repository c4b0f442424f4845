package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"parking-ledger-backend/internal/model"
)

// GetTariffs handles the GET /api/tariffs request. Inactive rules are
// included so operators can inspect the full configuration.
func GetTariffs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&model.TariffRule{})
		if raw := c.Query("class"); raw != "" {
			class, ok := model.ParseVehicleClass(raw)
			if !ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle class"})
				return
			}
			q = q.Where("class = ?", class)
		}

		var rules []model.TariffRule
		if err := q.Order("id").Find(&rules).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tariff rules"})
			return
		}
		c.JSON(http.StatusOK, rules)
	}
}
