package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hrms/models"
	"hrms/utils"
)

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

// UpdateTeamRequest is a merge patch: nil fields keep their stored value.
type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description"`
}

// AssignRequest accepts a single employeeId or an employeeIds list. The list wins when both
// are sent.
type AssignRequest struct {
	EmployeeID  *EntityID  `json:"employeeId"`
	EmployeeIDs []EntityID `json:"employeeIds"`
}

type UnassignRequest struct {
	EmployeeID EntityID `json:"employeeId"`
}

// TeamDetail is a team together with its member employees.
type TeamDetail struct {
	models.Team
	Employees []models.Employee `json:"Employees"`
}

type TeamController struct {
	DB     *gorm.DB
	Audit  *Auditor
	Logger *logrus.Logger
}

func NewTeamController(db *gorm.DB, audit *Auditor, logger *logrus.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Audit:  audit,
		Logger: logger,
	}
}

func (tc *TeamController) GetTeams(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	teams := []models.Team{}
	if err := tc.DB.WithContext(c.UserContext()).
		Where("organisation_id = ?", identity.OrganisationID).
		Order("id").
		Find(&teams).Error; err != nil {
		return utils.Internal(err, "failed to fetch teams")
	}

	return c.JSON(teams)
}

// GetTeam returns the team with its member employees.
func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Team")
	if err != nil {
		return err
	}

	db := tc.DB.WithContext(c.UserContext())
	team, err := findTeam(db, identity.OrganisationID, id)
	if err != nil {
		return err
	}

	employees := []models.Employee{}
	if err := db.Select("employees.*").
		Joins("JOIN employee_teams ON employee_teams.employee_id = employees.id").
		Where("employee_teams.team_id = ? AND employees.organisation_id = ?", team.ID, identity.OrganisationID).
		Order("employees.id").
		Find(&employees).Error; err != nil {
		return utils.Internal(err, "failed to fetch team members")
	}

	return c.JSON(TeamDetail{Team: *team, Employees: employees})
}

func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	team := models.Team{
		OrganisationID: identity.OrganisationID,
		Name:           req.Name,
		Description:    req.Description,
	}

	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return utils.Internal(err, "failed to create team")
		}
		if err := tc.Audit.Record(tx, identity, models.ActionTeamCreated, Meta{"teamId": team.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Team")
	if err != nil {
		return err
	}

	var req UpdateTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Name = trimPtr(req.Name)

	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var team *models.Team
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		found, err := findTeam(tx, identity.OrganisationID, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			found.Name = *req.Name
		}
		if req.Description != nil {
			found.Description = *req.Description
		}

		if err := tx.Save(found).Error; err != nil {
			return utils.Internal(err, "failed to update team")
		}
		if err := tc.Audit.Record(tx, identity, models.ActionTeamUpdated, Meta{"teamId": found.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		team = found
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(team)
}

// DeleteTeam removes the team and its memberships.
func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := utils.ParseID(c.Params("id"), "Team")
	if err != nil {
		return err
	}

	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, identity.OrganisationID, id)
		if err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", team.ID).Delete(&models.EmployeeTeam{}).Error; err != nil {
			return utils.Internal(err, "failed to delete team memberships")
		}
		if err := tx.Delete(team).Error; err != nil {
			return utils.Internal(err, "failed to delete team")
		}
		if err := tc.Audit.Record(tx, identity, models.ActionTeamDeleted, Meta{"teamId": team.ID}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(utils.MessageResponse("Team deleted"))
}

// AssignEmployees links the given employees to the team. Ids that do not name an employee
// of the caller's organisation are skipped. Existing links are left alone, but every
// valid employee still gets its own audit entry.
func (tc *TeamController) AssignEmployees(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	teamID, err := utils.ParseID(c.Params("teamId"), "Team")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var assigned []uint
	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, identity.OrganisationID, teamID)
		if err != nil {
			return err
		}

		ids := req.ids()
		if len(ids) == 0 {
			return utils.NewValidationError("No employeeId(s) provided")
		}

		var employees []models.Employee
		if err := tx.Where("id IN ? AND organisation_id = ?", ids, identity.OrganisationID).
			Order("id").
			Find(&employees).Error; err != nil {
			return utils.Internal(err, "failed to fetch employees")
		}
		if len(employees) == 0 {
			return utils.NewValidationError("No valid employees for this organisation")
		}

		for _, employee := range employees {
			link := models.EmployeeTeam{EmployeeID: employee.ID, TeamID: team.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return utils.Internal(err, "failed to assign employee")
			}
			if err := tc.Audit.Record(tx, identity, models.ActionEmployeeAssigned, Meta{
				"employeeId": employee.ID,
				"teamId":     team.ID,
			}); err != nil {
				return utils.Internal(err, "failed to write audit log")
			}
			assigned = append(assigned, employee.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "Employees assigned to team",
		"employeeIds": assigned,
	})
}

// UnassignEmployee removes a membership. Removing a link that does not exist still
// succeeds and is still audited.
func (tc *TeamController) UnassignEmployee(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	teamID, err := utils.ParseID(c.Params("teamId"), "Team")
	if err != nil {
		return err
	}

	var req UnassignRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	if raw := c.Query("employeeId"); req.EmployeeID == 0 && raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return utils.NewValidationError("employeeId is invalid")
		}
		req.EmployeeID = EntityID(id)
	}
	if req.EmployeeID == 0 {
		return utils.NewValidationError("employeeId is required")
	}

	err = tc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, identity.OrganisationID, teamID)
		if err != nil {
			return err
		}

		if err := tx.Where("employee_id = ? AND team_id = ?", uint(req.EmployeeID), team.ID).
			Delete(&models.EmployeeTeam{}).Error; err != nil {
			return utils.Internal(err, "failed to unassign employee")
		}
		if err := tc.Audit.Record(tx, identity, models.ActionEmployeeUnassigned, Meta{
			"employeeId": uint(req.EmployeeID),
			"teamId":     team.ID,
		}); err != nil {
			return utils.Internal(err, "failed to write audit log")
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(utils.MessageResponse("Employee unassigned from team"))
}

// ids merges both request forms and drops zeros and repeats, keeping first-seen order.
func (r AssignRequest) ids() []uint {
	raw := r.EmployeeIDs
	if raw == nil && r.EmployeeID != nil {
		raw = []EntityID{*r.EmployeeID}
	}

	seen := make(map[uint]struct{}, len(raw))
	ids := make([]uint, 0, len(raw))
	for _, entityID := range raw {
		id := uint(entityID)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// findTeam loads a team only if it belongs to organisationID.
func findTeam(db *gorm.DB, organisationID, id uint) (*models.Team, error) {
	var team models.Team
	if err := db.Where("id = ? AND organisation_id = ?", id, organisationID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("Team not found")
		}
		return nil, utils.Internal(err, "failed to fetch team")
	}
	return &team, nil
}
