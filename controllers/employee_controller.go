package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hrms/models"
	"hrms/utils"
)

type CreateEmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email"`
	Phone     string `json:"phone" validate:"max=50"`
}

// UpdateEmployeeRequest is a merge patch: nil fields keep their stored value.
type UpdateEmployeeRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone" validate:"omitnil,max=50"`
}

type EmployeeController struct {
	DB     *gorm.DB
	Audit  *Auditor
	Logger *logrus.Logger
}

func NewEmployeeController(db *gorm.DB, audit *Auditor, logger *logrus.Logger) *EmployeeController {
	return &EmployeeController{
		DB:     db,
		Audit:  audit,
		Logger: logger,
	}
}

// GetEmployees lists every employee of the caller's organisation.
func (ec *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	employees := []models.Employee{}
	if err := ec.DB.WithContext(c.UserContext()).
		Where("organisation_id = ?", identity.OrganisationID).
		Order("id").
		Find(&employees).Error; err != nil {
		return utils.Internal(err, "failed to fetch employees")
	}

	return c.JSON(employees)
}

func (ec *EmployeeController) GetEmployee(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Employee")
	if err != nil {
		return err
	}

	employee, err := findEmployee(ec.DB.WithContext(c.UserContext()), identity.OrganisationID, id)
	if err != nil {
		return err
	}

	return c.JSON(employee)
}

func (ec *EmployeeController) CreateEmployee(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	email, err := optionalEmail(req.Email)
	if err != nil {
		return err
	}

	employee := models.Employee{
		OrganisationID: identity.OrganisationID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Phone:          req.Phone,
	}

	err = ec.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employee).Error; err != nil {
			return utils.Internal(err, "failed to create employee")
		}
		if err := ec.Audit.Record(tx, identity, models.ActionEmployeeCreated, Meta{"employeeId": employee.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(employee)
}

// UpdateEmployee applies only the fields present in the body.
func (ec *EmployeeController) UpdateEmployee(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Employee")
	if err != nil {
		return err
	}

	var req UpdateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.FirstName = trimPtr(req.FirstName)
	req.LastName = trimPtr(req.LastName)
	req.Phone = trimPtr(req.Phone)

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	var email *string
	if req.Email != nil {
		normalized, err := optionalEmail(*req.Email)
		if err != nil {
			return err
		}
		email = &normalized
	}

	var employee *models.Employee
	err = ec.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		found, err := findEmployee(tx, identity.OrganisationID, id)
		if err != nil {
			return err
		}

		if req.FirstName != nil {
			found.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			found.LastName = *req.LastName
		}
		if email != nil {
			found.Email = *email
		}
		if req.Phone != nil {
			found.Phone = *req.Phone
		}

		if err := tx.Save(found).Error; err != nil {
			return utils.Internal(err, "failed to update employee")
		}
		if err := ec.Audit.Record(tx, identity, models.ActionEmployeeUpdated, Meta{"employeeId": found.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		employee = found
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(employee)
}

// DeleteEmployee removes the employee and its team memberships.
func (ec *EmployeeController) DeleteEmployee(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Employee")
	if err != nil {
		return err
	}

	err = ec.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, identity.OrganisationID, id)
		if err != nil {
			return err
		}

		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.EmployeeTeam{}).Error; err != nil {
			return utils.Internal(err, "failed to delete employee memberships")
		}
		if err := tx.Delete(employee).Error; err != nil {
			return utils.Internal(err, "failed to delete employee")
		}
		if err := ec.Audit.Record(tx, identity, models.ActionEmployeeDeleted, Meta{"employeeId": employee.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(utils.MessageResponse("Employee deleted"))
}

// findEmployee loads an employee only if it belongs to organisationID.
func findEmployee(db *gorm.DB, organisationID, id uint) (*models.Employee, error) {
	var employee models.Employee
	if err := db.Where("id = ? AND organisation_id = ?", id, organisationID).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Employee not found")
		}
		return nil, utils.Internal(err, "failed to fetch employee")
	}
	return &employee, nil
}
