package controller

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hrms/models"
	"hrms/utils"
)

type RegisterRequest struct {
	OrgName   string `json:"orgName" validate:"required,max=200"`
	AdminName string `json:"adminName" validate:"required,max=200"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type AuthController struct {
	DB     *gorm.DB
	Tokens *utils.TokenService
	Audit  *Auditor
	Logger *logrus.Logger
}

func NewAuthController(db *gorm.DB, tokens *utils.TokenService, audit *Auditor, logger *logrus.Logger) *AuthController {
	return &AuthController{
		DB:     db,
		Tokens: tokens,
		Audit:  audit,
		Logger: logger,
	}
}

// Register creates an organisation together with its admin user and signs the admin in.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.OrgName = strings.TrimSpace(req.OrgName)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.Email = strings.TrimSpace(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	email, err := utils.NormalizeEmail(req.Email)
	if err != nil {
		return err
	}

	db := ac.DB.WithContext(c.UserContext())

	var existing models.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return utils.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Internal(err, "failed to check email")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Internal(err, "failed to hash password")
	}

	var resp AuthResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		organisation := models.Organisation{Name: req.OrgName}
		if err := tx.Create(&organisation).Error; err != nil {
			return utils.Internal(err, "failed to create organisation")
		}

		user := models.User{
			OrganisationID: organisation.ID,
			Name:           req.AdminName,
			Email:          email,
			PasswordHash:   hash,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateEmail
			}
			return utils.Internal(err, "failed to create user")
		}

		identity := utils.Identity{UserID: user.ID, OrganisationID: organisation.ID}
		if err := ac.Audit.Record(tx, identity, models.ActionOrganisationCreated, Meta{"organisationId": organisation.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}

		token, err := ac.Tokens.Issue(user.ID, organisation.ID)
		if err != nil {
			return utils.Internal(err, "failed to issue token")
		}

		resp = AuthResponse{Token: token, User: user.Summary()}
		return nil
	})
	if err != nil {
		return err
	}

	utils.LogEvent(ac.Logger, models.ActionOrganisationCreated, map[string]interface{}{
		"organisation_id": resp.User.OrganisationID,
		"user_id":         resp.User.ID,
	})
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login checks credentials and issues a token. Unknown email and wrong password produce the
// same error.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	db := ac.DB.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Spend the same bcrypt work as a real comparison.
			utils.CheckPassword(dummyHash(), req.Password)
			return utils.ErrInvalidCredentials
		}
		return utils.Internal(err, "failed to fetch user")
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return utils.ErrInvalidCredentials
	}

	var resp AuthResponse
	err := db.Transaction(func(tx *gorm.DB) error {
		identity := utils.Identity{UserID: user.ID, OrganisationID: user.OrganisationID}
		if err := ac.Audit.Record(tx, identity, models.ActionUserLoggedIn, nil); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}

		token, err := ac.Tokens.Issue(user.ID, user.OrganisationID)
		if err != nil {
			return utils.Internal(err, "failed to issue token")
		}

		resp = AuthResponse{Token: token, User: user.Summary()}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue string
)

func dummyHash() string {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = utils.HashPassword("not-a-real-password")
	})
	return dummyHashValue
}
