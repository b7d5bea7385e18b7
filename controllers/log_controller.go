package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hrms/models"
	"hrms/utils"
)

type LogController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewLogController(db *gorm.DB, logger *logrus.Logger) *LogController {
	return &LogController{
		DB:     db,
		Logger: logger,
	}
}

// GetLogs returns the organisation's audit trail, newest first, with the acting user's
// name and email.
func (lc *LogController) GetLogs(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	logs := []models.Log{}
	if err := lc.DB.WithContext(c.UserContext()).
		Where("organisation_id = ?", identity.OrganisationID).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error; err != nil {
		return utils.Internal(err, "failed to fetch logs")
	}

	return c.JSON(logs)
}
